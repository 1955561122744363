// Package notify adapts the monitor's reminder events for the external email
// collaborator. Actual delivery lives outside this service; the default
// implementation records the event in the service log.
package notify

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyOverdue(ctx context.Context, checkout domain.Checkout) error {
	itemIDs := make([]string, 0, len(checkout.Items))
	for itemID := range checkout.Items {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Strings(itemIDs)

	n.logger.Printf(
		"checkout notification #%d holder=%s checkout=%s due=%s items=%s",
		checkout.NotificationsSent+1,
		checkout.HolderID,
		checkout.ID,
		checkout.TimeDue.Format("2006-01-02"),
		strings.Join(itemIDs, ","),
	)
	return nil
}
