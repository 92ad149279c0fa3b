package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bally3399/chord001-monograms/internal/domain"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

const messagePrefix = "Hi, I want to make the designs: "

// Link is a WhatsApp deep link that opens a chat with the shop and a
// prefilled order message.
type Link struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Handoff builds checkout links for a fixed shop number.
type Handoff struct {
	number string
}

// NewHandoff validates number (international format, optional leading +)
// and returns a Handoff that links to it.
func NewHandoff(number string) (*Handoff, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(number), "+")
	if len(digits) < 7 || len(digits) > 15 {
		return nil, fmt.Errorf("invalid whatsapp number %q", number)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid whatsapp number %q", number)
		}
	}
	return &Handoff{number: digits}, nil
}

// Message lists the design IDs of the cart in cart order.
func Message(items []domain.CartItem) string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.DesignID
	}
	return messagePrefix + strings.Join(ids, ", ")
}

// Link returns the handoff for items. An empty cart has no link.
func (h *Handoff) Link(items []domain.CartItem) (Link, error) {
	if h == nil {
		return Link{}, apperrors.Internal(errors.New("checkout handoff is not configured"))
	}
	if len(items) == 0 {
		return Link{}, apperrors.InvalidInput("cart is empty")
	}
	msg := Message(items)
	return Link{
		URL:     "https://wa.me/" + h.number + "?text=" + encodeText(msg),
		Message: msg,
	}, nil
}

// encodeText percent-encodes msg for the text parameter, spaces as %20.
func encodeText(msg string) string {
	return strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
