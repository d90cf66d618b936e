package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a free-text prompt. Validate, when set, rejects an
// answer before it reaches the form; drivers that cannot validate inline
// return the answer and the renderer asks again.
type InputConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(string) error
}

type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a single choice. The driver returns the index of
// the chosen option.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// PromptDriver is the terminal seam of the renderer. Tests script it; the
// default implementation uses survey.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

// surveyDriver prompts on stderr so stdout carries only the payload.
type surveyDriver struct {
	in  terminal.FileReader
	out terminal.FileWriter
	msg io.Writer
}

func newSurveyDriver() PromptDriver {
	return &surveyDriver{in: os.Stdin, out: os.Stderr, msg: os.Stderr}
}

// ask runs one survey prompt, translating Ctrl-C into ErrAborted.
func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, out any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = append(opts, survey.WithStdio(d.in, d.out, d.msg))
	err := survey.AskOne(prompt, out, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	var opts []survey.AskOpt
	if cfg.Validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return cfg.Validate(s)
		}))
	}
	err := d.ask(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer, opts...)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

// Select answers with the chosen index; survey writes OptionAnswer.Index
// into an int target, so repeated captions stay distinct.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	var answer int
	if err := d.ask(ctx, selectPrompt(cfg), &answer); err != nil {
		return 0, err
	}
	return answer, nil
}

// selectPrompt defaults by index for the same reason.
func selectPrompt(cfg SelectConfig) *survey.Select {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.DefaultIndex
	}
	return prompt
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.msg, msg)
	return err
}
