package tokenizer

import (
	"errors"
)

// CountResult captures the outcome of counting a prompt.
type CountResult struct {
	Tokens int
	Model  string
}

// CountPrompt estimates tokens for text using counter, reporting them under model.
func CountPrompt(counter Counter, model string, text string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	tokens, err := counter.CountString(text)
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Model: model}, nil
}
