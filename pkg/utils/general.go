package utils

import (
	"os"
)

// ResponseData is the REST response envelope. Status drives the HTTP code
// only and is not serialized.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics on a non-nil error so the recovery middleware can
// translate it into a structured response.
func PanicIfNeeded(err any) {
	if err != nil {
		panic(err)
	}
}

// CreateFolder makes every given directory, parents included.
func CreateFolder(folders ...string) error {
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return err
		}
	}
	return nil
}
