package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/wrenchworks/repairshop-backend/internal/model"
	"github.com/wrenchworks/repairshop-backend/internal/repository"
)

// DefaultNotificationTemplate is the completed-repair message sent to the
// customer. Placeholders come from the ticket and its owning customer.
const DefaultNotificationTemplate = "Hi {first_name}, your repair \"{title}\" (ticket #{ticket_id}) is complete and ready for pickup."

// RenderTemplate substitutes {placeholder} tokens in template
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		if v == "" {
			v = "<unknown>"
		}
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// RenderNotification renders the customer-facing message for a ticket
func RenderNotification(template string, t *model.Ticket, c *model.Customer) string {
	return RenderTemplate(template, map[string]string{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"title":      t.Title,
		"tech":       t.Tech,
		"ticket_id":  strconv.Itoa(t.ID),
	})
}

// Notifier processes queued notification jobs: load, send, record outcome.
// A send failure returns an error so the queue retries.
type Notifier struct {
	NotificationRepo repository.NotificationRepositoryInterface
	SendFunc         func(content string) error
}

func NewNotifier(repo repository.NotificationRepositoryInterface, sendFunc func(content string) error) *Notifier {
	if sendFunc == nil {
		sendFunc = MockSender
	}
	return &Notifier{NotificationRepo: repo, SendFunc: sendFunc}
}

func (n *Notifier) Process(notificationID int) error {
	notification, err := n.NotificationRepo.GetByID(notificationID)
	if err != nil {
		return err
	}
	if notification == nil {
		return nil // gone, no retry
	}

	if err := n.SendFunc(notification.RenderedContent); err != nil {
		_ = n.NotificationRepo.UpdateStatus(notificationID, "failed", err.Error())
		return err
	}

	return n.NotificationRepo.UpdateStatus(notificationID, "sent", "")
}

// MockSender simulates delivery with 90% success.
// TODO: replace with the SMS gateway client once its credentials land.
func MockSender(content string) error {
	if rand.Float64() < 0.9 {
		return nil
	}
	return fmt.Errorf("mock sending failed")
}
