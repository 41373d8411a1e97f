package ws

import (
	"context"
	"encoding/json"
	"log"
	"slices"
	"time"

	"github.com/verte-zerg/keyidle/internal/catalog"
	"github.com/verte-zerg/keyidle/internal/engine"
	"github.com/verte-zerg/keyidle/internal/runner"
)

const (
	sendQueue    = 32
	suggestLimit = 3
)

var actionTypes = []string{
	ActState, ActClick, ActType, ActBuy, ActUpgrade, ActClickPower, ActSpeed,
	ActToggleAutoBuy, ActToggleChallenges, ActTrigger, ActCheat,
}

type client struct {
	send chan []byte
}

type envelope struct {
	c       *client
	act     Action
	limited bool
}

// Hub owns the engine. Every engine call happens on the goroutine running
// Run; connections talk to it through channels.
type Hub struct {
	runner *runner.Runner
	eng    *engine.Engine
	log    *log.Logger
	tick   time.Duration

	inbox      chan envelope
	register   chan *client
	unregister chan *client
	done       chan struct{}
	clients    map[*client]struct{}
}

// NewHub builds a hub that ticks r tickRate times per second.
func NewHub(r *runner.Runner, tickRate int, logger *log.Logger) *Hub {
	if tickRate <= 0 {
		tickRate = runner.DefaultTickRate
	}
	return &Hub{
		runner:     r,
		eng:        r.Engine(),
		log:        logger,
		tick:       time.Second / time.Duration(tickRate),
		inbox:      make(chan envelope),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		clients:    map[*client]struct{}{},
	}
}

// Run drives the engine until ctx is canceled, then saves the slot and
// disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return h.runner.Save(context.Background(), h.eng.Now())
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Printf("client connected (%d online)", len(h.clients))
			h.send(c, h.stateFrame())
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Printf("client disconnected (%d online)", len(h.clients))
			}
		case env := <-h.inbox:
			if _, ok := h.clients[env.c]; !ok {
				continue
			}
			frame := Frame{Type: FrameResult, Action: env.act.Type, Error: errRateLimited}
			if !env.limited {
				frame = h.apply(env.act)
			}
			h.send(env.c, frame)
		case <-ticker.C:
			if err := h.runner.Tick(ctx, h.eng.Now()); err != nil {
				h.log.Printf("tick: %v", err)
			}
			h.broadcast(h.stateFrame())
		}
	}
}

// apply runs one action against the engine and builds the reply.
func (h *Hub) apply(act Action) Frame {
	frame := Frame{Type: FrameResult, Action: act.Type}
	ok := true
	failure := ""
	switch act.Type {
	case ActState:
	case ActClick:
		h.eng.Click()
	case ActCheat:
		h.eng.Cheat()
	case ActType:
		for _, r := range act.Text {
			if !h.eng.TypeChar(r) {
				ok, failure = false, "typing is locked"
				break
			}
		}
	case ActBuy:
		ids := h.eng.Catalog().ProducerIDs()
		if !slices.Contains(ids, act.ID) {
			ok, failure = false, "unknown producer"
			frame.Suggest = catalog.Suggest(act.ID, ids, suggestLimit)
		} else if ok = h.eng.PurchaseProducer(act.ID); !ok {
			failure = "cannot purchase producer"
		}
	case ActUpgrade:
		ids := h.eng.Catalog().UpgradeIDs()
		if !slices.Contains(ids, act.ID) {
			ok, failure = false, "unknown upgrade"
			frame.Suggest = catalog.Suggest(act.ID, ids, suggestLimit)
		} else if ok = h.eng.PurchaseUpgrade(act.ID); !ok {
			failure = "cannot purchase upgrade"
		}
	case ActClickPower:
		if ok = h.eng.PurchaseClickPowerUpgrade(); !ok {
			failure = "cannot afford click power"
		}
	case ActSpeed:
		if ok = h.eng.PurchaseAutoBuySpeedUpgrade(); !ok {
			failure = "buyer speed unavailable"
		}
	case ActToggleAutoBuy:
		if ok = h.eng.ToggleAutoBuy(); !ok {
			failure = "auto-buy is locked"
		}
	case ActToggleChallenges:
		if ok = h.eng.ToggleChallenges(); !ok {
			failure = "challenges are locked"
		}
	case ActTrigger:
		if ok = h.eng.TriggerChallenge(); !ok {
			failure = "no challenge available"
		}
	default:
		ok, failure = false, "unknown action"
		frame.Suggest = catalog.Suggest(act.Type, actionTypes, suggestLimit)
	}
	frame.OK = ok
	frame.Error = failure
	view := h.eng.State()
	frame.State = &view
	return frame
}

func (h *Hub) stateFrame() Frame {
	view := h.eng.State()
	return Frame{Type: FrameState, State: &view}
}

func (h *Hub) broadcast(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		h.log.Printf("encode frame: %v", err)
		return
	}
	for c := range h.clients {
		h.deliver(c, b)
	}
}

func (h *Hub) send(c *client, f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		h.log.Printf("encode frame: %v", err)
		return
	}
	h.deliver(c, b)
}

// deliver queues b for c and drops clients that fall behind.
func (h *Hub) deliver(c *client, b []byte) {
	select {
	case c.send <- b:
	default:
		h.drop(c)
		h.log.Printf("dropped slow client")
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}
