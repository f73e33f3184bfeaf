//go:build !linux

package resource

import "errors"

func readSystemMemory() (*SystemMemory, error) {
	return nil, errors.New("system memory figures are only read on linux")
}
