// Package notify pushes condition alerts to the coaching staff's Telegram
// chat. Delivery is synchronous and fire-and-forget: a failed send is logged
// and dropped, never retried.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/hsato-11/teamcond/internal/metrics"
)

var alertText = map[metrics.AlertKind]string{
	metrics.AlertFatigueSpike:    "fatigue spike",
	metrics.AlertSleepDrop:       "sleep degradation",
	metrics.AlertRapidWeightLoss: "rapid weight loss",
}

// Notifier wraps a Telegram bot. A nil Notifier is a safe no-op, so callers
// never need to branch on whether notifications are configured.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New builds a Notifier from a bot token and target chat. Returns nil when
// the token is empty or the bot cannot authorize; the tracker works fine
// without notifications.
func New(botToken string, chatID int64) *Notifier {
	if botToken == "" || chatID == 0 {
		return nil
	}
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		logrus.WithError(err).Warn("telegram bot authorization failed, notifications disabled")
		return nil
	}
	logrus.WithField("bot", api.Self.UserName).Info("telegram notifications enabled")
	return &Notifier{api: api, chatID: chatID}
}

// ConditionAlerts reports the alerts triggered by a player's latest check-in.
func (n *Notifier) ConditionAlerts(playerName string, date string, alerts []metrics.AlertKind) {
	if n == nil || len(alerts) == 0 {
		return
	}

	labels := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if label, ok := alertText[a]; ok {
			labels = append(labels, label)
		}
	}

	text := fmt.Sprintf("⚠️ %s (%s): %s", playerName, date, strings.Join(labels, ", "))
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		logrus.WithError(err).WithField("player", playerName).Warn("failed to send telegram alert")
	}
}
