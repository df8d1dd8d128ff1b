package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"precinctpulse/internal/models"

	"github.com/sirupsen/logrus"
)

// Service sends bargain alerts through the Telegram bot API. It stays
// disabled until both the bot token and chat ID are configured.
type Service struct {
	logger   *logrus.Logger
	client   *http.Client
	botToken string
	chatID   string
	baseURL  string
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://api.telegram.org",
	}
}

// Configure sets the bot credentials. Empty values keep the service
// disabled.
func (s *Service) Configure(botToken, chatID string) {
	s.botToken = botToken
	s.chatID = chatID
}

// IsEnabled reports whether alerts will actually be sent.
func (s *Service) IsEnabled() bool {
	return s.botToken != "" && s.chatID != ""
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if !s.IsEnabled() {
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	payload := map[string]interface{}{
		"chat_id":    s.chatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyBargains sends one alert per precinct that came out of a run
// with flagged bargains. Precincts without bargains stay silent.
func (s *Service) NotifyBargains(summary models.PrecinctSummary, bargains []models.PropertyDetail) error {
	if !s.IsEnabled() {
		return nil
	}
	if len(bargains) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>💡 %d bargain(s) in %s</b>\n\n", len(bargains), summary.Precinct)
	fmt.Fprintf(&b, "📊 Median: %s PKR/sq yd over %d finished houses\n\n",
		formatAmount(summary.MedianUnitPrice), summary.HouseCount)

	shown := len(bargains)
	if shown > 5 {
		shown = 5
	}
	for i := 0; i < shown; i++ {
		d := bargains[i]
		z := "n/a"
		if d.ZScore != nil {
			z = fmt.Sprintf("%.2f", *d.ZScore)
		}
		fmt.Fprintf(&b, "🏠 %s PKR / %.0f sq yd = %s PKR/sq yd (z=%s)\n",
			formatAmount(d.Price), d.Size, formatAmount(d.UnitPrice), z)
	}
	if len(bargains) > shown {
		fmt.Fprintf(&b, "\n…and %d more", len(bargains)-shown)
	}

	return s.SendMessage(b.String())
}

// formatAmount renders a PKR amount with thousands separators.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
