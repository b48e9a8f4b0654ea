package error

import "net/http"

// NotFoundError reports an unknown resource URI, prompt name, or cache
// entry. The message is safe to surface to the caller verbatim.
type NotFoundError string

func (err NotFoundError) Error() string {
	return string(err)
}

func (err NotFoundError) ErrCode() string {
	return "NOT_FOUND_ERROR"
}

func (err NotFoundError) StatusCode() int {
	return http.StatusNotFound
}
