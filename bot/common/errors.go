package common

import (
	"errors"
	"fmt"

	"rewardbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericErrorMessage = "Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool
	Err         error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: genericErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

var userMessages = []struct {
	err     error
	message string
}{
	{service.ErrUnauthorized, "You are not allowed to use this command."},
	{service.ErrAccountBanned, "Your account has been suspended."},
	{service.ErrAccountNotFound, "That account does not exist. They need to /start first."},
	{service.ErrKeyNotFound, "That key does not exist."},
	{service.ErrKeyAlreadyClaimed, "That key has already been claimed."},
	{service.ErrInsufficientBalance, "You do not have enough points."},
	{service.ErrInvalidKeyKind, "Unknown key kind. Use standard or premium."},
	{service.ErrInvalidQuantity, "Quantity must be between 1 and 100."},
	{service.ErrInvalidIdentity, "That user reference is not valid."},
	{service.ErrInvalidSetting, "Unknown setting or invalid value."},
	{service.ErrGrantNotFound, "That user has no admin grant."},
	{service.ErrInvalidMessage, "The message is empty or too long."},
	{service.ErrConcurrentUpdateConflict, "The ledger is busy right now. Please try again."},
}

// FromDomainError wraps a service error in a BotError with the message
// matching its kind. Errors of unknown kind become system errors.
func FromDomainError(err error, logMessage string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return &BotError{
				UserMessage: m.message,
				LogMessage:  logMessage,
				Ephemeral:   true,
				Err:         err,
			}
		}
	}
	return NewSystemError(err, logMessage)
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	botErr := FromDomainError(err, "Unexpected error in bot command")

	fields := log.Fields{
		"user_id":      InvokerID(i),
		"command":      i.ApplicationCommandData().Name,
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
	}
	if botErr.Err != nil && botErr.UserMessage == genericErrorMessage {
		log.WithFields(fields).Error(botErr.LogMessage)
	} else {
		log.WithFields(fields).Info(botErr.LogMessage)
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}
