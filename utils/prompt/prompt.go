package promptutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

type Prompter interface {
	PromptForInput(label string) (string, error)
	PromptForSecret(label string) (string, error)
}

type RealPrompter struct{}

var (
	ErrInterrupted = errors.New("operation interrupted")
	ErrEmptyInput  = errors.New("value cannot be empty")
)

func (p *RealPrompter) HandlePromptError(err error) error {
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			fmt.Println("\nReceived termination signal. Exiting.")
			return ErrInterrupted
		}
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (p *RealPrompter) PromptForInput(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: ValidateNotEmpty,
	}
	result, err := prompt.Run()
	if err := p.HandlePromptError(err); err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// PromptForSecret reads a value without echoing it.
func (p *RealPrompter) PromptForSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: ValidateNotEmpty,
	}
	result, err := prompt.Run()
	if err := p.HandlePromptError(err); err != nil {
		return "", err
	}
	return result, nil
}

func ValidateNotEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	return nil
}

func NewPrompt() Prompter {
	return &RealPrompter{}
}
