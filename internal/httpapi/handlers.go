package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ZaguanLabs/gorelay"
)

const (
	msgRequired        = "Text and target language are required"
	msgTextRequired    = "Text is required"
	msgUnknownProvider = "preferredService must be openai or gemini"
	msgServiceError    = "Translation service error"
	msgFailed          = "Translation failed"
	unsupportedPrefix  = "Error: Unsupported language "
)

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type translateResponse struct {
	OriginalText string            `json:"original_text"`
	Translations map[string]string `json:"translations"`
}

type translateAllRequest struct {
	Text             string `json:"text"`
	PreferredService string `json:"preferredService"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": gorelay.Name,
		"version": gorelay.FullVersion(),
	})
}

// handleTranslate translates text into a comma-separated list of codes and
// answers with one string per requested code.
func (s *Server) handleTranslate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, msgRequired)
	}

	codes := gorelay.SplitLanguageList(req.TargetLang)
	if strings.TrimSpace(req.Text) == "" || len(codes) == 0 {
		return fail(c, http.StatusBadRequest, msgRequired)
	}

	result, err := s.relay.Translate(c.Request().Context(), gorelay.Request{
		Text:      req.Text,
		Targets:   codes,
		Preferred: s.opts.TranslatePreferred,
	})
	if err != nil {
		if gorelay.IsValidationError(err) {
			return fail(c, http.StatusBadRequest, msgRequired)
		}
		return err
	}

	translations := make(map[string]string, len(codes))
	for _, code := range codes {
		translations[code] = displayOutcome(code, result)
	}

	return c.JSON(http.StatusOK, translateResponse{
		OriginalText: req.Text,
		Translations: translations,
	})
}

// handleTranslateAll runs the full batch and returns the aggregate result.
func (s *Server) handleTranslateAll(c echo.Context) error {
	var req translateAllRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, msgTextRequired)
	}

	preferred := gorelay.ProviderID(strings.ToLower(strings.TrimSpace(req.PreferredService)))
	switch preferred {
	case "", gorelay.ProviderOpenAI, gorelay.ProviderGemini:
	default:
		return fail(c, http.StatusBadRequest, msgUnknownProvider)
	}

	result, err := s.relay.TranslateAll(c.Request().Context(), req.Text, preferred)
	if err != nil {
		if gorelay.IsValidationError(err) {
			return fail(c, http.StatusBadRequest, msgTextRequired)
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func displayOutcome(code string, result *gorelay.AggregateResult) string {
	if !gorelay.IsSupported(code) {
		return unsupportedPrefix + code
	}

	outcome, ok := result.Translations[gorelay.Language(gorelay.NormalizeCode(code))]
	if !ok || !outcome.Succeeded() {
		return msgFailed
	}
	return outcome.Text
}
