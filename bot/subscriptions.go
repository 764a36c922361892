package bot

import (
	"rewardbot/events"

	log "github.com/sirupsen/logrus"
)

// RegisterBotSubscriptions wires the notifier into the event bus
func RegisterBotSubscriptions(bus *events.Bus, notifier *Notifier) {
	bus.Subscribe(events.EventTypeKeysGenerated, notifier.HandleKeysGenerated)
	bus.Subscribe(events.EventTypeKeyClaimed, notifier.HandleKeyClaimed)
	bus.Subscribe(events.EventTypeReferralAwarded, notifier.HandleReferralAwarded)
	bus.Subscribe(events.EventTypePointsLent, notifier.HandlePointsLent)
	bus.Subscribe(events.EventTypeStaffNotice, notifier.HandleStaffNotice)
	bus.Subscribe(events.EventTypeReviewSubmitted, notifier.HandleReviewSubmitted)

	log.Info("Bot event subscriptions registered successfully")
}
