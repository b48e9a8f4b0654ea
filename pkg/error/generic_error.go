package error

// GenericError is implemented by error kinds that know their protocol-level
// code and the HTTP status they map to. The REST recovery middleware relies
// on it to turn panics into structured responses.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}
