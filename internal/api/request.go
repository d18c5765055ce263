package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"chatrelay/internal/models"
)

type relayRequest struct {
	Messages []models.Message `json:"messages" binding:"required,min=1,dive"`
}

var messageFields = map[string]struct{}{
	"role":    {},
	"content": {},
}

func init() {
	// report validation failures by JSON path instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// parseRelayBody validates a relay body and normalizes it to a message
// sequence. The multi-turn "messages" form wins over the legacy "query" form.
func parseRelayBody(body []byte) ([]models.Message, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("request body must be valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New("request body must be a JSON object")
	}
	if name, dup := duplicateKey(root); dup {
		return nil, fmt.Errorf("request body has duplicate field %q", name)
	}

	if raw := root.Get("messages"); raw.Exists() {
		if err := checkMessagesShape(raw); err != nil {
			return nil, err
		}
		var req relayRequest
		if err := binding.JSON.BindBody(body, &req); err != nil {
			return nil, describeBindError(err)
		}
		return req.Messages, nil
	}

	if query := root.Get("query"); query.Exists() {
		if query.Type != gjson.String || strings.TrimSpace(query.String()) == "" {
			return nil, errors.New("query must be a non-empty string")
		}
		return []models.Message{{Role: models.RoleUser, Content: query.String()}}, nil
	}

	return nil, errors.New("messages array is required")
}

// checkMessagesShape enforces that every message is an object with exactly
// the fields role and content, both strings.
func checkMessagesShape(raw gjson.Result) error {
	if !raw.IsArray() {
		return errors.New("messages must be an array")
	}
	for i, item := range raw.Array() {
		if !item.IsObject() {
			return fmt.Errorf("messages[%d] must be an object", i)
		}
		var fieldErr error
		seen := make(map[string]struct{}, len(messageFields))
		item.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if _, ok := messageFields[name]; !ok {
				fieldErr = fmt.Errorf("messages[%d] has unexpected field %q", i, name)
				return false
			}
			if _, ok := seen[name]; ok {
				fieldErr = fmt.Errorf("messages[%d] has duplicate field %q", i, name)
				return false
			}
			seen[name] = struct{}{}
			if value.Type != gjson.String {
				fieldErr = fmt.Errorf("messages[%d].%s must be a string", i, name)
				return false
			}
			return true
		})
		if fieldErr != nil {
			return fieldErr
		}
	}
	return nil
}

// duplicateKey reports the first key repeated in obj. gjson reads the first
// occurrence while the JSON binding keeps the last.
func duplicateKey(obj gjson.Result) (string, bool) {
	seen := make(map[string]struct{})
	var dup string
	found := false
	obj.ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if _, ok := seen[name]; ok {
			dup, found = name, true
			return false
		}
		seen[name] = struct{}{}
		return true
	})
	return dup, found
}

func describeBindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("invalid request body")
	}
	fe := verrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Errorf("%s must not be empty", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
