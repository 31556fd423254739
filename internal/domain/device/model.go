package device

// Device is one registered client installation. Each device gets its
// own credentials; all devices share the same note set.
type Device struct {
	ID       int
	Name     string
	Password string // bcrypt hash
}

type BaseRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
