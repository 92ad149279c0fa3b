package domain

// Viewer is either anonymous or an authenticated viewer with an ID.
// The zero value is Anonymous.
type Viewer struct {
	id string
}

// Anonymous returns the signed-out viewer.
func Anonymous() Viewer { return Viewer{} }

// Authenticated returns a signed-in viewer. An empty id yields Anonymous.
func Authenticated(id string) Viewer { return Viewer{id: id} }

// ID returns the viewer ID and whether the viewer is authenticated.
func (v Viewer) ID() (string, bool) {
	return v.id, v.id != ""
}

// IsAnonymous reports whether the viewer is signed out.
func (v Viewer) IsAnonymous() bool { return v.id == "" }

func (v Viewer) String() string {
	if v.id == "" {
		return "anonymous"
	}
	return "viewer:" + v.id
}
