package workers

import (
	"context"
	"log"
)

// HitRecorder is implemented by services.ReferralService.
type HitRecorder interface {
	RecordHit(kind, code string)
}

type AttributionHit struct {
	Kind string
	Code string
}

// AttributionHitWorker carries the detached referral/promo counter
// increment: the tracking request enqueues a hit and moves on, a single
// consumer goroutine applies it. There is no result channel back to the
// caller.
type AttributionHitWorker struct {
	recorder HitRecorder
	queue    chan AttributionHit
}

func NewAttributionHitWorker(recorder HitRecorder, buffer int) *AttributionHitWorker {
	if buffer <= 0 {
		buffer = 256
	}
	return &AttributionHitWorker{
		recorder: recorder,
		queue:    make(chan AttributionHit, buffer),
	}
}

// Enqueue never blocks: a full queue drops the hit. Click tracking is
// best-effort and must never delay the request it is attached to.
func (w *AttributionHitWorker) Enqueue(kind, code string) {
	select {
	case w.queue <- AttributionHit{Kind: kind, Code: code}:
	default:
		log.Printf("⚠️ attribution hit queue full, dropping %s hit for %s", kind, code)
	}
}

func (w *AttributionHitWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Attribution Hit Worker…")
	go w.run(ctx)
}

func (w *AttributionHitWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Attribution Hit Worker stopped")
			return
		case hit := <-w.queue:
			w.recorder.RecordHit(hit.Kind, hit.Code)
		}
	}
}
