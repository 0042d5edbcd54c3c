package domain

import (
	"net/mail"
	"strings"
)

const (
	maxEmailLength = 254
	maxLocalLength = 64
	maxLabelLength = 63
)

// ValidateEmail checks that email is a bare local@domain.tld address within
// the conventional length limits. Quoted local parts and display names are
// rejected. The address is not normalized.
func ValidateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if strings.Count(email, "@") != 1 {
		return ErrInvalidEmail
	}
	local, host, _ := strings.Cut(email, "@")
	if !validLocalPart(local) || !validDomain(host) {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validLocalPart(local string) bool {
	if local == "" || len(local) > maxLocalLength {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	for _, r := range local {
		if r != '.' && !isAtext(r) {
			return false
		}
	}
	return true
}

func validDomain(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > maxLabelLength {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !isAlnum(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

// isAtext matches RFC 5322 atext.
func isAtext(r rune) bool {
	if isAlnum(r) {
		return true
	}
	return strings.ContainsRune("!#$%&'*+/=?^_`{|}~-", r)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
