// Package dispatch fans detected signals out to channel subscribers across
// the configured delivery paths, applying subscription filters and a
// per-(subscriber, channel) cooldown.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"signal-pipeline/internal/delivery"
	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/observability"
	"signal-pipeline/internal/storage"
)

// Result summarizes one fan-out.
type Result struct {
	TotalSubscribers int
	Notified         int
	RateLimited      int
	Filtered         int
	Errors           []string
}

// Options configures a Dispatcher.
type Options struct {
	Subscriptions storage.SubscriptionStore // required
	Notifications storage.NotificationStore // required
	Pusher        delivery.Pusher           // optional, defaults to NopPusher
	Email         delivery.EmailSender      // optional, email path disabled when nil
	Echo          delivery.EchoSender       // optional, echo path disabled when nil
	Cooldown      time.Duration             // defaults to DefaultCooldown
	Logger        *log.Logger               // defaults to log.Default()
	Metrics       *observability.Metrics    // optional
}

// Dispatcher delivers notifications for detected signals.
type Dispatcher struct {
	subscriptions storage.SubscriptionStore
	notifications storage.NotificationStore
	pusher        delivery.Pusher
	email         delivery.EmailSender
	echo          delivery.EchoSender
	limiter       *RateLimiter
	logger        *log.Logger
	metrics       *observability.Metrics
}

// New creates a Dispatcher.
func New(opts Options) (*Dispatcher, error) {
	if opts.Subscriptions == nil {
		return nil, fmt.Errorf("dispatch: subscription store is required")
	}
	if opts.Notifications == nil {
		return nil, fmt.Errorf("dispatch: notification store is required")
	}

	pusher := opts.Pusher
	if pusher == nil {
		pusher = delivery.NopPusher{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Dispatcher{
		subscriptions: opts.Subscriptions,
		notifications: opts.Notifications,
		pusher:        pusher,
		email:         opts.Email,
		echo:          opts.Echo,
		limiter:       NewRateLimiter(opts.Cooldown),
		logger:        logger,
		metrics:       opts.Metrics,
	}, nil
}

// Dispatch fans det out to every active subscriber of the channel. The
// cooldown and the filters are checked sequentially; deliveries for passing
// subscribers then run concurrently. Always returns a Result, with
// per-subscriber failures collected rather than aborting the fan-out.
func (d *Dispatcher) Dispatch(ctx context.Context, channelID int64, det *domain.Detection) Result {
	start := time.Now()

	var res Result
	subs, err := d.subscriptions.ListActive(ctx, channelID)
	if err != nil {
		d.logger.Printf("dispatch: list subscribers for channel %d: %v", channelID, err)
		res.Errors = append(res.Errors, fmt.Sprintf("list subscribers: %v", err))
		return res
	}
	res.TotalSubscribers = len(subs)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, sub := range subs {
		// The cooldown is checked ahead of the filters: a subscriber
		// inside the window counts as rate limited even when the
		// detection would not have passed their filters.
		if d.limiter.Limited(sub.SubscriberID, channelID) {
			res.RateLimited++
			if d.metrics != nil {
				d.metrics.NotificationsRateLimited.Inc()
			}
			continue
		}
		if !sub.Matches(det) {
			res.Filtered++
			if d.metrics != nil {
				d.metrics.NotificationsFiltered.Inc()
			}
			continue
		}
		// Stamped before delivery: a failed delivery still consumes
		// the cooldown window.
		d.limiter.Stamp(sub.SubscriberID, channelID)

		wg.Add(1)
		go func(sub *domain.Subscription) {
			defer wg.Done()
			notified, errs := d.deliver(ctx, sub, det)

			mu.Lock()
			defer mu.Unlock()
			if notified {
				res.Notified++
			}
			res.Errors = append(res.Errors, errs...)
		}(sub)
	}
	wg.Wait()

	if d.metrics != nil {
		d.metrics.DispatchLatency.Observe(time.Since(start).Seconds())
		d.metrics.DispatchErrors.Add(float64(len(res.Errors)))
	}
	return res
}

// deliver runs the delivery paths for one subscriber concurrently. The
// in-app record plus realtime push always run; email and echo only when the
// subscription enables them and a sender is configured.
func (d *Dispatcher) deliver(ctx context.Context, sub *domain.Subscription, det *domain.Detection) (bool, []string) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []string
		notified bool
	)
	fail := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		n := &domain.Notification{
			ID:              uuid.NewString(),
			SubscriberID:    sub.SubscriberID,
			Type:            domain.NotificationTypeSignal,
			Title:           notificationTitle(det),
			Message:         notificationBody(det),
			Data:            notificationData(det),
			TokenSymbol:     det.TokenSymbol,
			ContractAddress: firstContract(det),
			ChannelName:     det.ChannelName,
			CreatedAt:       time.Now().UnixMilli(),
		}
		if err := d.notifications.Create(ctx, n); err != nil {
			fail("subscriber %d: save notification: %v", sub.SubscriberID, err)
			return
		}
		mu.Lock()
		notified = true
		mu.Unlock()
		if d.metrics != nil {
			d.metrics.NotificationsSent.WithLabelValues("inapp").Inc()
		}

		// Realtime push is best-effort: disconnected clients catch up
		// from the persisted record.
		if err := d.pusher.SendToSubscriber(sub.SubscriberID, map[string]any{
			"type":         "notification",
			"notification": n,
		}); err != nil {
			d.logger.Printf("dispatch: push to subscriber %d: %v", sub.SubscriberID, err)
			if d.metrics != nil {
				d.metrics.PushSendFailures.Inc()
			}
		}
	}()

	if sub.NotifyEmail && d.email != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.email.Send(ctx, sub.SubscriberID, emailSubject(det), emailBody(det)); err != nil {
				fail("subscriber %d: email: %v", sub.SubscriberID, err)
				return
			}
			if d.metrics != nil {
				d.metrics.NotificationsSent.WithLabelValues("email").Inc()
			}
		}()
	}

	if sub.NotifyEcho && d.echo != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.echo.SendToSelf(ctx, sub.SubscriberID, echoHTML(det)); err != nil {
				fail("subscriber %d: echo: %v", sub.SubscriberID, err)
				return
			}
			if d.metrics != nil {
				d.metrics.NotificationsSent.WithLabelValues("echo").Inc()
			}
		}()
	}

	wg.Wait()
	return notified, errs
}
