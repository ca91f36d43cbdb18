package game

// NetworkSession abstracts the player's websocket so sessions can be
// driven by fakes in tests.
type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}
