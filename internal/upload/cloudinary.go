package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/bally3399/chord001-monograms/pkg/httpclient"
)

// CloudinaryConfig configures unsigned uploads against a Cloudinary preset.
type CloudinaryConfig struct {
	CloudName    string `env:"CLOUD_NAME"`
	UploadPreset string `env:"UPLOAD_PRESET" envDefault:"chord001_designs"`
	BaseURL      string `env:"BASE_URL" envDefault:"https://api.cloudinary.com"`
}

// Doer is satisfied by *httpclient.CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CloudinaryUploader posts images to the Cloudinary upload API.
type CloudinaryUploader struct {
	cfg    CloudinaryConfig
	client Doer
}

// NewCloudinaryUploader creates an uploader. client should be wrapped in a
// circuit breaker so a Cloudinary outage fails fast.
func NewCloudinaryUploader(cfg CloudinaryConfig, client Doer) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("cloudinary cloud name is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com"
	}
	return &CloudinaryUploader{cfg: cfg, client: client}, nil
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *CloudinaryUploader) endpoint() string {
	return fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(u.cfg.BaseURL, "/"), u.cfg.CloudName)
}

// Upload sends the file with the configured unsigned preset and returns
// the secure_url Cloudinary assigns to it.
func (u *CloudinaryUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy file: %w", err)
	}
	if err := mw.WriteField("upload_preset", u.cfg.UploadPreset); err != nil {
		return "", fmt.Errorf("write preset field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint(), &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(ctx, req)
	if err != nil {
		var se *httpclient.ServerError
		if errors.As(err, &se) {
			return "", failed(fmt.Sprintf("image service returned %d", se.StatusCode), err)
		}
		return "", failed("image service unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out cloudinaryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", failed("unreadable response from image service", err)
	}
	if out.Error != nil {
		return "", failed(out.Error.Message, fmt.Errorf("cloudinary status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 300 || out.SecureURL == "" {
		return "", failed("image service returned no URL", fmt.Errorf("cloudinary status %d", resp.StatusCode))
	}
	return out.SecureURL, nil
}
