// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer delivers contact-form messages through the EmailJS REST
// API. The service, template and public key identify the EmailJS account;
// the template decides the final email layout.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// ErrNotConfigured is returned by Send when no EmailJS account is set.
var ErrNotConfigured = errors.New("mailer: emailjs not configured")

// Message is one contact-form submission.
type Message struct {
	Name    string
	Email   string
	Message string
}

// EmailJS sends messages through the EmailJS REST API.
type EmailJS struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Endpoint   string
	Client     *http.Client
}

// NewEmailJS creates a client for the given account.
func NewEmailJS(serviceID, templateID, publicKey string) *EmailJS {
	return &EmailJS{
		ServiceID:  serviceID,
		TemplateID: templateID,
		PublicKey:  publicKey,
		Endpoint:   DefaultEndpoint,
		Client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether all account identifiers are present.
func (e *EmailJS) Configured() bool {
	return e != nil && e.ServiceID != "" && e.TemplateID != "" && e.PublicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send delivers msg. Any non-2xx response is an error carrying the
// response body.
func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	if !e.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:  e.ServiceID,
		TemplateID: e.TemplateID,
		UserID:     e.PublicKey,
		TemplateParams: map[string]string{
			"from_name":  msg.Name,
			"from_email": msg.Email,
			"reply_to":   msg.Email,
			"message":    msg.Message,
		},
	})
	if err != nil {
		return fmt.Errorf("emailjs marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs send: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
