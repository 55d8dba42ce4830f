package recordstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

const maxResponseBytes = 32 << 20

type statusEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func readEnvelope(raw []byte) statusEnvelope {
	var env statusEnvelope
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env
	}
	_ = json.Unmarshal(trimmed, &env)
	if env.Message == "" {
		env.Message = env.Error
	}
	return env
}

// classify maps a store response onto the error taxonomy. It returns nil
// for a usable success response.
func classify(status int, raw []byte) error {
	env := readEnvelope(raw)

	switch {
	case status == http.StatusNotFound:
		msg := env.Message
		if msg == "" {
			msg = "record not found"
		}
		return apperrors.NewNotFoundError(msg)

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		msg := env.Message
		if msg == "" {
			msg = "operator session was refused"
		}
		err := apperrors.NewUnauthorizedError(msg)
		err.Status = status
		return err

	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return apperrors.NewRejectedError(env.Message, status)

	case status < 200 || status >= 300:
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("record store returned status %d", status)
		}
		return apperrors.NewTransportError(msg, status, nil)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if !json.Valid(trimmed) {
		return apperrors.NewTransportError("record store returned a non-JSON response", status, nil)
	}
	if env.Success != nil && !*env.Success {
		return apperrors.NewRejectedError(env.Message, status)
	}
	return nil
}

// decodeList accepts a bare array or an object holding the array under one
// of keys.
func decodeList(raw []byte, keys []string, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		return decodeInto(trimmed, out)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return apperrors.NewTransportError("unexpected list response", 0, err)
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || string(bytes.TrimSpace(v)) == "null" {
			continue
		}
		return decodeInto(v, out)
	}
	return apperrors.NewTransportError(
		fmt.Sprintf("list response has none of %v", keys), 0, nil)
}

// decodeRecord decodes the record echoed back by a mutation, either bare or
// wrapped under key or "data". A response without a record leaves out as is.
func decodeRecord(raw []byte, key string, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return apperrors.NewTransportError("unexpected record response", 0, err)
	}
	for _, k := range []string{key, "data"} {
		v, ok := obj[k]
		if !ok {
			continue
		}
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '{' {
			return decodeInto(v, out)
		}
	}
	if _, ok := obj["_id"]; ok {
		return decodeInto(trimmed, out)
	}
	return nil
}

func decodeMessage(raw []byte, fallback string) string {
	if env := readEnvelope(raw); env.Message != "" {
		return env.Message
	}
	return fallback
}

func decodeInto(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewTransportError("decode record store response", 0, err)
	}
	return nil
}
