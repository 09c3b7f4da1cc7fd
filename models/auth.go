// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/base64"

// AuthDescriptor carries either a username/password pair (framed as Basic
// auth) or an opaque pre-computed credentials string. Scheme defaults to
// "Basic" for the former and "Kinvey" for the latter when left empty.
type AuthDescriptor struct {
	Scheme      string
	Username    string
	Password    string
	Credentials string
}

// ResolveCredentials returns the Authorization header scheme and value for
// this descriptor. Username+password pairs are base64-framed per Basic auth;
// otherwise the descriptor's opaque Credentials are used verbatim.
func (a AuthDescriptor) ResolveCredentials() (scheme, credentials string) {
	if a.Username != "" {
		scheme = a.Scheme
		if scheme == "" {
			scheme = "Basic"
		}
		return scheme, base64.StdEncoding.EncodeToString([]byte(a.Username+":"+a.Password))
	}

	scheme = a.Scheme
	if scheme == "" {
		scheme = "Kinvey"
	}
	return scheme, a.Credentials
}

// AuthFunc resolves an AuthDescriptor for a given client reference, invoked
// exactly once per execute(). The client parameter is untyped here to avoid
// a dependency from models onto the client package; concrete closures accept
// the *client.Client they close over.
type AuthFunc func(client any) (AuthDescriptor, error)

// Auth is the two-variant sum of spec.md §9: either a static descriptor or a
// closure that produces one. At most one of the two fields should be set; a
// zero Auth means "no credentials".
type Auth struct {
	Static  *AuthDescriptor
	Closure AuthFunc
}

// IsZero reports whether neither variant carries credentials.
func (a Auth) IsZero() bool {
	return a.Static == nil && a.Closure == nil
}

// Resolve evaluates the Auth exactly once: closures are invoked with client,
// static descriptors are returned unchanged. A zero Auth resolves to a nil
// descriptor and a nil error (request proceeds unauthenticated).
func (a Auth) Resolve(client any) (*AuthDescriptor, error) {
	if a.Closure != nil {
		d, err := a.Closure(client)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}
	return a.Static, nil
}
