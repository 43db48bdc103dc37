package main

import (
	"errors"
	"testing"

	"wowbridge/internal/wowerr"
)

func TestExitFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"config", wowerr.New(wowerr.ConfigError, "bad yaml"), exitConfigError},
		{"auth fatal", wowerr.New(wowerr.AuthFatal, "banned"), exitFatalAuth},
		{"transport", wowerr.New(wowerr.TransportError, "eof"), exitUnrecoverable},
		{"unclassified", errors.New("boom"), exitUnrecoverable},
	}
	for _, c := range cases {
		if got := exitFromError(c.err); got != c.want {
			t.Errorf("%s: exitFromError = %d, want %d", c.name, got, c.want)
		}
	}
}
