// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains request and response types for the chat endpoints.
package datatypes

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Input Limits
// =============================================================================

const (
	// MaxMessageContentBytes is the maximum size of a single message.
	// Byte length, not rune count, to bound memory use.
	MaxMessageContentBytes = 32 * 1024 // 32KB

	// MaxHistoryMessages is the maximum number of prior turns a chat
	// request may carry inline.
	MaxHistoryMessages = 100
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// chatValidate is the validator for chat datatypes, initialized in init()
// with custom validators.
var chatValidate *validator.Validate

func init() {
	chatValidate = validator.New()
	_ = chatValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes enforces MaxMessageContentBytes on a string field.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxMessageContentBytes
}

// =============================================================================
// Chat Types
// =============================================================================

// ChatRequest is the body of POST /v1/chat. SessionID is optional; when
// empty a new session is created and returned in the response.
type ChatRequest struct {
	Query     string    `json:"query" validate:"required,maxbytes"`
	SessionID string    `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	History   []Message `json:"history,omitempty" validate:"max=100,dive"`
	Model     string    `json:"model,omitempty"`
}

// Validate checks the request against the registered constraints and
// returns a caller-friendly error for the first violation.
func (r *ChatRequest) Validate() error {
	if err := chatValidate.Struct(r); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("field %q failed %q constraint", errs[0].Field(), errs[0].Tag())
		}
		return err
	}
	if !utf8.ValidString(r.Query) {
		return fmt.Errorf("query is not valid UTF-8")
	}
	return nil
}

// ChatResponse is the body returned by POST /v1/chat.
type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
	Model     string `json:"model,omitempty"`
	Error     string `json:"error,omitempty"`
}
