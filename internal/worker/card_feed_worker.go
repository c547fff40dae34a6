package worker

import (
	"github.com/tcgvault/card-catalog/internal/service"
)

// StartCardFeedWorker registers the card change feed handlers.
func StartCardFeedWorker(feed *service.CardFeedService) {
	if feed == nil {
		return
	}
	feed.RegisterHandlers()
}
