package api

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// maxErrorBodyBytes caps how much of an error body is kept for diagnostics
const maxErrorBodyBytes = 4096

// Wire shapes for the service's JSON bodies. Every decode validates the
// fields the client depends on; a malformed body becomes a DecodeError,
// never a zero-value guess.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type userResponse struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type profileResponse struct {
	ProfileText string   `json:"profile_text"`
	Facts       []string `json:"facts"`
}

type createChatRequest struct {
	Title string `json:"title"`
}

type chatSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CreatedAt float64 `json:"created_at"`
}

type deleteChatResponse struct {
	Status string `json:"status"`
}

type sendRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type sendResponse struct {
	// Response is a pointer so a body that omits the field entirely is
	// distinguishable from an empty reply.
	Response *string `json:"response"`
	ChatID   string  `json:"chat_id"`
	Title    string  `json:"title,omitempty"`
}

type historyEntry struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// decodeJSON unmarshals a 2xx body, converting failures into DecodeErrors
func decodeJSON(resp *resty.Response, endpoint string, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return apierrors.NewDecodeError(endpoint, "unexpected response shape", err)
	}
	return nil
}

// timeFromEpoch converts the service's unix-seconds float timestamps
func timeFromEpoch(sec float64) time.Time {
	s, frac := math.Modf(sec)
	return time.Unix(int64(s), int64(frac*1e9)).UTC()
}

// toSession validates a chat summary and converts it to the domain type
func (cs chatSummary) toSession(endpoint string) (models.Session, error) {
	if cs.ID == "" {
		return models.Session{}, apierrors.NewDecodeError(endpoint, "chat entry missing id", nil)
	}
	return models.Session{
		ID:        cs.ID,
		Title:     cs.Title,
		CreatedAt: timeFromEpoch(cs.CreatedAt),
	}, nil
}

// toMessage validates a history entry and converts it to the domain type
func (he historyEntry) toMessage(endpoint string) (models.Message, error) {
	role := models.Role(he.Role)
	if !role.IsValid() {
		return models.Message{}, apierrors.NewDecodeError(endpoint, "unknown message role "+he.Role, nil)
	}
	if len(he.Parts) == 0 {
		return models.Message{}, apierrors.NewDecodeError(endpoint, "history entry has no parts", nil)
	}
	return models.Message{
		Role:    role,
		Content: strings.Join(he.Parts, ""),
	}, nil
}

// extractDetail pulls the human-readable explanation out of an error body
func extractDetail(body string) string {
	detail := gjson.Get(body, PathDetail)
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		if msg := gjson.Get(body, PathDetailFirstMsg); msg.Exists() {
			return msg.String()
		}
	}
	return ""
}

// extractFieldErrors maps a validation-list detail to field names. The
// last loc element is the field; earlier elements locate it in the request.
func extractFieldErrors(body string) map[string]string {
	detail := gjson.Get(body, PathDetail)
	if !detail.IsArray() {
		return nil
	}

	fields := make(map[string]string)
	detail.ForEach(func(_, item gjson.Result) bool {
		field := "request"
		if loc := item.Get("loc").Array(); len(loc) > 0 {
			field = loc[len(loc)-1].String()
		}
		fields[field] = item.Get("msg").String()
		return true
	})

	if len(fields) == 0 {
		return nil
	}
	return fields
}
