// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package execs runs external commands through a session stored in the
// context, so command invocations can be recorded and mocked in tests.
package execs

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

var sessionKey = "osiris exec session"

// Call records a single command invocation made through a MockSession.
type Call struct {
	Executable    string
	Args          []string
	Env           []string
	ConsumedStdin string
}

type session interface {
	run(ctx context.Context, stdin string, capture bool, env []string, executable string, args ...string) (string, error)
}

type realSession struct{}

func (realSession) run(ctx context.Context, stdin string, capture bool, env []string, executable string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, executable, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	} else {
		cmd.Stdin = os.Stdin
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.Stderr = os.Stderr
	logging.Debugf(ctx, "Running %s %s", executable, strings.Join(args, " "))
	if capture {
		out, err := cmd.Output()
		return string(out), err
	}
	cmd.Stdout = os.Stdout
	return "", cmd.Run()
}

// MockSession is a scripted session for tests. Every invocation appends a
// Call, pops the next ReturnOutput entry as its output and the next
// ReturnError entry as its error, both defaulting to zero values when the
// queue is exhausted.
type MockSession struct {
	Calls        []*Call
	ReturnOutput []string
	ReturnError  []error
}

func (s *MockSession) run(ctx context.Context, stdin string, capture bool, env []string, executable string, args ...string) (string, error) {
	s.Calls = append(s.Calls, &Call{
		Executable:    executable,
		Args:          args,
		Env:           env,
		ConsumedStdin: stdin,
	})
	var out string
	if len(s.ReturnOutput) > 0 {
		out = s.ReturnOutput[0]
		s.ReturnOutput = s.ReturnOutput[1:]
	}
	var err error
	if len(s.ReturnError) > 0 {
		err = s.ReturnError[0]
		s.ReturnError = s.ReturnError[1:]
	}
	return out, err
}

// UseReal installs a session that runs real commands with inherited stdio.
func UseReal(ctx context.Context) context.Context {
	return context.WithValue(ctx, &sessionKey, realSession{})
}

// UseMock installs a scripted session for tests.
func UseMock(ctx context.Context, s *MockSession) context.Context {
	return context.WithValue(ctx, &sessionKey, s)
}

func sessionOf(ctx context.Context) (session, error) {
	s, ok := ctx.Value(&sessionKey).(session)
	if !ok {
		return nil, errors.Reason("no exec session in context").Err()
	}
	return s, nil
}

// RunCommand runs a command, passing its output through to the user.
func RunCommand(ctx context.Context, executable string, args ...string) error {
	s, err := sessionOf(ctx)
	if err != nil {
		return err
	}
	_, err = s.run(ctx, "", false, nil, executable, args...)
	return err
}

// RunCommandEnv is RunCommand with extra "KEY=value" environment entries
// appended to the inherited environment.
func RunCommandEnv(ctx context.Context, env []string, executable string, args ...string) error {
	s, err := sessionOf(ctx)
	if err != nil {
		return err
	}
	_, err = s.run(ctx, "", false, env, executable, args...)
	return err
}

// RunWithStdin runs a command feeding it the given input on stdin.
func RunWithStdin(ctx context.Context, stdin, executable string, args ...string) error {
	s, err := sessionOf(ctx)
	if err != nil {
		return err
	}
	_, err = s.run(ctx, stdin, false, nil, executable, args...)
	return err
}

// RunOutput runs a command and returns its captured stdout.
func RunOutput(ctx context.Context, executable string, args ...string) (string, error) {
	s, err := sessionOf(ctx)
	if err != nil {
		return "", err
	}
	return s.run(ctx, "", true, nil, executable, args...)
}
