package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"rewardbot/bot/common"
	"rewardbot/events"
	"rewardbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxCodesPerMessage keeps generated-key DMs under Discord's message limit
const maxCodesPerMessage = 50

// DirectMessenger is the slice of discordgo.Session used to send DMs
type DirectMessenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier sends DMs about ledger events to owners, staff and the users involved
type Notifier struct {
	messenger DirectMessenger
	owners    []string
	staff     []string
}

// NewNotifier keeps only entries configured by identity; @username entries
// cannot be messaged without a lookup
func NewNotifier(messenger DirectMessenger, owners, admins []string) *Notifier {
	ownerIDs := messageable(owners)
	staff := slices.Clone(ownerIDs)
	for _, id := range messageable(admins) {
		if !slices.Contains(staff, id) {
			staff = append(staff, id)
		}
	}
	return &Notifier{
		messenger: messenger,
		owners:    ownerIDs,
		staff:     staff,
	}
}

func messageable(entries []string) []string {
	var ids []string
	for _, entry := range entries {
		if entry = strings.TrimSpace(entry); entry != "" && !service.IsUsernameRef(entry) {
			ids = append(ids, entry)
		}
	}
	return ids
}

func (n *Notifier) HandleKeysGenerated(ctx context.Context, event events.Event) {
	e, ok := event.(events.KeysGeneratedEvent)
	if !ok {
		return
	}

	for start := 0; start < len(e.Codes); start += maxCodesPerMessage {
		end := min(start+maxCodesPerMessage, len(e.Codes))
		header := fmt.Sprintf("🔑 %s generated %d %s key(s)", common.GetUserMention(e.Actor), len(e.Codes), e.Kind)
		if start > 0 {
			header = fmt.Sprintf("🔑 continued (%d-%d)", start+1, end)
		}
		n.notifyOwners(header + "\n```\n" + strings.Join(e.Codes[start:end], "\n") + "\n```")
	}
}

func (n *Notifier) HandleKeyClaimed(ctx context.Context, event events.Event) {
	e, ok := event.(events.KeyClaimedEvent)
	if !ok {
		return
	}
	n.notifyOwners(fmt.Sprintf("🎟️ %s claimed `%s` (%s, %s points)",
		common.GetUserMention(e.Claimant), e.Code, e.Kind, common.FormatSigned(e.Points)))
}

func (n *Notifier) HandleReferralAwarded(ctx context.Context, event events.Event) {
	e, ok := event.(events.ReferralAwardedEvent)
	if !ok {
		return
	}
	n.send(e.Referrer, fmt.Sprintf("🎉 %s joined with your referral link. You earned **%s points** (%d referrals so far).",
		common.GetUserMention(e.Referred), common.FormatBalance(e.Bonus), e.ReferralCount))
}

// HandlePointsLent tells the target that their balance was adjusted
func (n *Notifier) HandlePointsLent(ctx context.Context, event events.Event) {
	e, ok := event.(events.PointsLentEvent)
	if !ok {
		return
	}
	n.send(e.Target, fmt.Sprintf("💸 %s adjusted your balance by **%s points**. New balance: **%s points**",
		common.GetUserMention(e.Actor), common.FormatSigned(e.Delta), common.FormatBalance(e.NewBalance)))
}

// HandleStaffNotice relays a /notify broadcast to every owner and admin
func (n *Notifier) HandleStaffNotice(ctx context.Context, event events.Event) {
	e, ok := event.(events.StaffNoticeEvent)
	if !ok {
		return
	}
	from := common.GetUserMention(e.Actor)
	if e.ActorName != "" {
		from = fmt.Sprintf("%s (%s)", e.ActorName, from)
	}
	content := fmt.Sprintf("📢 Notification from %s:\n\n%s", from, e.Message)
	for _, recipient := range n.staff {
		n.send(recipient, content)
	}
}

func (n *Notifier) HandleReviewSubmitted(ctx context.Context, event events.Event) {
	e, ok := event.(events.ReviewSubmittedEvent)
	if !ok {
		return
	}
	n.notifyOwners(fmt.Sprintf("💬 New review #%d from %s:\n%s",
		e.ReviewID, common.GetUserMention(e.Identity), common.Truncate(e.Text, 1500)))
}

func (n *Notifier) notifyOwners(content string) {
	for _, owner := range n.owners {
		n.send(owner, content)
	}
}

func (n *Notifier) send(recipient, content string) {
	channel, err := n.messenger.UserChannelCreate(recipient)
	if err != nil {
		log.WithError(err).WithField("recipient", recipient).Warn("Failed to open DM channel")
		return
	}
	if _, err := n.messenger.ChannelMessageSend(channel.ID, content); err != nil {
		log.WithError(err).WithField("recipient", recipient).Warn("Failed to send DM")
	}
}
