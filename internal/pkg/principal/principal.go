// Package principal decodes the identity header set by the hosting platform's authentication front end.
package principal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/campusconnect/campus-api/internal/domain"
)

const Header = "x-ms-client-principal"

var ErrMalformed = errors.New("malformed client principal")

// Decode parses the base64-encoded JSON principal. An empty header yields (nil, nil).
func Decode(header string) (*domain.Principal, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		// Some proxies strip the padding.
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(header, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	var p domain.Principal
	if err = json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if p.UserID == "" {
		return nil, fmt.Errorf("%w: missing userId", ErrMalformed)
	}
	if p.UserRoles == nil {
		p.UserRoles = []string{}
	}

	return &p, nil
}

// Encode is the inverse of Decode.
func Encode(p domain.Principal) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}
