package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

type fetchKind int

const (
	fetchRestaurants fetchKind = iota
	fetchCustomerName
	fetchMenu
	fetchSubmit
	fetchStatus
	fetchHistory
)

// State is a whole client session: the active screen plus the identifiers
// bound across screens.
type State struct {
	Screen       domain.Screen
	CustomerID   string
	CustomerName string
	Restaurant   *domain.Restaurant
	Cart         *domain.Cart

	// PendingSubmit identifies the order submission in flight, 0 when none.
	// It outlives screen changes so the cart stays locked until the backend
	// answers.
	PendingSubmit uint64
}

type update func(State) (State, []fetch)

// result is what a finished request wants to do to the session.
type result struct {
	apply update
	// always runs even when the response turned out to be stale
	always func(State) State
}

type fetch struct {
	kind fetchKind
	run  func(ctx context.Context) result
}

// token identifies an issued request. It is current while no screen
// transition happened and no newer request of the same kind was issued.
type token struct {
	epoch uint64
	seq   uint64
	kind  fetchKind
}

// Navigator is the client state machine of one session. Every action is one
// atomic transition; backend calls run without holding the lock and their
// results are applied only while their token is current.
type Navigator struct {
	sessionID string
	catalog   *Catalog
	submitter *OrderSubmitter
	tracker   *StatusTracker
	events    port.EventPublisher
	log       *logger.Logger

	mu      sync.Mutex
	state   State
	epoch   uint64
	seq     map[fetchKind]uint64
	submits uint64

	applied   atomic.Int64
	discarded atomic.Int64
}

// NewNavigator builds a signed-out session. events may be nil.
func NewNavigator(sessionID string, catalog *Catalog, submitter *OrderSubmitter, tracker *StatusTracker, events port.EventPublisher, log *logger.Logger) *Navigator {
	return &Navigator{
		sessionID: sessionID,
		catalog:   catalog,
		submitter: submitter,
		tracker:   tracker,
		events:    events,
		log:       log,
		state:     signedOut(),
		seq:       make(map[fetchKind]uint64),
	}
}

func signedOut() State {
	return State{Screen: domain.LoginScreen{}, Cart: domain.NewCart("")}
}

func (n *Navigator) SessionID() string {
	return n.sessionID
}

// Dispatch applies action and waits for the requests it triggers. Invalid
// actions leave the session untouched. A *domain.ValidationError is
// returned together with the view that displays it.
func (n *Navigator) Dispatch(ctx context.Context, action Action) (View, error) {
	n.mu.Lock()
	prev := n.state
	next, fetches, err := n.reduce(prev, action)

	var validation *domain.ValidationError
	if err != nil && !errors.As(err, &validation) {
		view := render(prev)
		n.mu.Unlock()
		return view, err
	}

	transitioned := n.commit(prev, next)
	tokens := n.issue(fetches)
	n.mu.Unlock()

	if transitioned {
		n.publish(ctx, domain.EventScreenChanged, next)
	}
	if err != nil {
		return n.View(), err
	}

	n.run(ctx, fetches, tokens)
	return n.View(), nil
}

func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return render(n.state)
}

// Stats reports how many responses were applied and how many were
// discarded as stale.
func (n *Navigator) Stats() (applied, discarded int64) {
	return n.applied.Load(), n.discarded.Load()
}

func (n *Navigator) reduce(s State, a Action) (State, []fetch, error) {
	arg := strings.TrimSpace(a.Argument)

	switch a.Type {
	case ActionSignOut:
		return signedOut(), nil, nil

	case ActionLogin:
		if _, ok := s.Screen.(domain.LoginScreen); !ok {
			return s, nil, invalid(s, a)
		}
		if arg == "" {
			return s, nil, &domain.ValidationError{Field: "clienteId", Message: "Informe o identificador do cliente."}
		}
		next := State{
			Screen:       domain.RestaurantListScreen{},
			CustomerID:   arg,
			CustomerName: arg,
			Cart:         resetCart(s.Cart, arg),
		}
		return next, []fetch{n.loadRestaurants(false), n.loadCustomerName(arg)}, nil

	case ActionSelectRestaurant:
		list, ok := s.Screen.(domain.RestaurantListScreen)
		if !ok {
			return s, nil, invalid(s, a)
		}
		restaurant, found := domain.FindRestaurant(list.Restaurants, arg)
		if !found {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownRestaurant, arg)
		}
		next := s
		next.Restaurant = &restaurant
		next.Cart = resetCart(s.Cart, s.CustomerID)
		next.Screen = domain.MenuScreen{Restaurant: restaurant}
		return next, []fetch{n.loadMenu(restaurant.ID, false)}, nil

	case ActionChangeRestaurant:
		switch s.Screen.(type) {
		case domain.MenuScreen, domain.TrackingScreen, domain.OrderHistoryScreen:
		default:
			return s, nil, invalid(s, a)
		}
		next := s
		next.Screen = domain.RestaurantListScreen{}
		return next, []fetch{n.loadRestaurants(false)}, nil

	case ActionAddItem, ActionRemoveItem:
		menu, ok := s.Screen.(domain.MenuScreen)
		if !ok {
			return s, nil, invalid(s, a)
		}
		if s.PendingSubmit != 0 {
			return s, nil, ErrSubmitInProgress
		}
		next := s
		next.Cart = s.Cart.Clone()
		if a.Type == ActionRemoveItem {
			next.Cart.RemoveItem(arg)
			return next, nil, nil
		}
		item, found := domain.FindMenuItem(menu.Items, arg)
		if !found {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownItem, arg)
		}
		next.Cart.AddItem(item)
		return next, nil, nil

	case ActionSubmit:
		menu, ok := s.Screen.(domain.MenuScreen)
		if !ok {
			return s, nil, invalid(s, a)
		}
		if s.PendingSubmit != 0 {
			return s, nil, ErrSubmitInProgress
		}
		next := s
		if err := n.submitter.Validate(s.Cart); err != nil {
			menu.Status = SubmitStatus(err)
			next.Screen = menu
			return next, nil, err
		}
		n.submits++
		menu.Status = ""
		next.Screen = menu
		next.PendingSubmit = n.submits
		return next, []fetch{n.submitOrder(n.submits, s.Cart.Clone(), menu.Restaurant.ID, arg)}, nil

	case ActionOpenHistory:
		switch s.Screen.(type) {
		case domain.MenuScreen, domain.TrackingScreen, domain.OrderHistoryScreen:
		default:
			return s, nil, invalid(s, a)
		}
		next := s
		next.Screen = domain.OrderHistoryScreen{}
		return next, []fetch{n.loadHistory(s.CustomerID)}, nil

	case ActionSelectOrder:
		history, ok := s.Screen.(domain.OrderHistoryScreen)
		if !ok {
			return s, nil, invalid(s, a)
		}
		if !containsOrder(history.Orders, arg) {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownOrder, arg)
		}
		tracking := domain.TrackingScreen{OrderID: arg}
		if last, ok := n.tracker.Latest(arg); ok {
			tracking.Snapshot = &last
		}
		next := s
		next.Screen = tracking
		return next, []fetch{n.loadStatus(arg)}, nil

	case ActionRefresh:
		switch sc := s.Screen.(type) {
		case domain.TrackingScreen:
			return s, []fetch{n.loadStatus(sc.OrderID)}, nil
		case domain.OrderHistoryScreen:
			return s, []fetch{n.loadHistory(s.CustomerID)}, nil
		case domain.MenuScreen:
			return s, []fetch{n.loadMenu(sc.Restaurant.ID, true)}, nil
		case domain.RestaurantListScreen:
			return s, []fetch{n.loadRestaurants(true)}, nil
		}
		return s, nil, invalid(s, a)

	case ActionShowMenu:
		switch s.Screen.(type) {
		case domain.TrackingScreen, domain.OrderHistoryScreen:
		default:
			return s, nil, invalid(s, a)
		}
		if s.Restaurant == nil {
			return s, nil, invalid(s, a)
		}
		next := s
		next.Screen = domain.MenuScreen{Restaurant: *s.Restaurant}
		return next, []fetch{n.loadMenu(s.Restaurant.ID, false)}, nil
	}

	return s, nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}

// Carts are copied before mutation; a State never shares a cart it changes.
func resetCart(c *domain.Cart, customerID string) *domain.Cart {
	next := c.Clone()
	next.Reset(customerID)
	return next
}

func clearedCart(c *domain.Cart) *domain.Cart {
	next := c.Clone()
	next.Clear()
	return next
}

func invalid(s State, a Action) error {
	return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, a.Type, s.Screen.Name())
}

func containsOrder(orders []domain.Order, id string) bool {
	for _, o := range orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

// commit installs next and reports whether it is a different screen, in
// which case every outstanding request becomes stale. Callers hold n.mu.
func (n *Navigator) commit(prev, next State) bool {
	n.state = next
	if screenKey(prev) == screenKey(next) {
		return false
	}
	n.epoch++
	clear(n.seq)
	return true
}

func screenKey(s State) string {
	switch sc := s.Screen.(type) {
	case domain.MenuScreen:
		return fmt.Sprintf("%s/%s/%s", sc.Name(), s.CustomerID, sc.Restaurant.ID)
	case domain.TrackingScreen:
		return fmt.Sprintf("%s/%s/%s", sc.Name(), s.CustomerID, sc.OrderID)
	}
	return fmt.Sprintf("%s/%s", s.Screen.Name(), s.CustomerID)
}

// issue hands out tokens; a newer request of a kind supersedes older ones.
// Callers hold n.mu.
func (n *Navigator) issue(fetches []fetch) []token {
	tokens := make([]token, len(fetches))
	for i, f := range fetches {
		n.seq[f.kind]++
		tokens[i] = token{epoch: n.epoch, seq: n.seq[f.kind], kind: f.kind}
	}
	return tokens
}

func (n *Navigator) run(ctx context.Context, fetches []fetch, tokens []token) {
	for len(fetches) > 0 {
		var follow []fetch
		var followTokens []token
		for i, f := range fetches {
			more, moreTokens := n.settle(ctx, tokens[i], f.run(ctx))
			follow = append(follow, more...)
			followTokens = append(followTokens, moreTokens...)
		}
		fetches, tokens = follow, followTokens
	}
}

func (n *Navigator) settle(ctx context.Context, tok token, res result) ([]fetch, []token) {
	n.mu.Lock()
	if tok.epoch != n.epoch || tok.seq != n.seq[tok.kind] {
		if res.always != nil {
			n.state = res.always(n.state)
		}
		state := n.state
		n.mu.Unlock()

		n.discarded.Add(1)
		n.log.Debug("stale_response_discarded", n.sessionID, "response superseded by newer navigation",
			slog.Int("kind", int(tok.kind)))
		n.publish(ctx, domain.EventStaleResponse, state)
		return nil, nil
	}

	prev := n.state
	next, more := res.apply(prev)
	transitioned := n.commit(prev, next)
	tokens := n.issue(more)
	n.mu.Unlock()

	n.applied.Add(1)
	if transitioned {
		n.publish(ctx, domain.EventScreenChanged, next)
	}
	return more, tokens
}

// loadRestaurants fetches the restaurant list; reload bypasses the cache.
func (n *Navigator) loadRestaurants(reload bool) fetch {
	return fetch{kind: fetchRestaurants, run: func(ctx context.Context) result {
		var restaurants []domain.Restaurant
		if reload {
			restaurants = n.catalog.ReloadRestaurants(ctx)
		} else {
			restaurants = n.catalog.Restaurants(ctx)
		}
		return result{apply: func(s State) (State, []fetch) {
			if _, ok := s.Screen.(domain.RestaurantListScreen); ok {
				s.Screen = domain.RestaurantListScreen{Restaurants: restaurants}
			}
			return s, nil
		}}
	}}
}

func (n *Navigator) loadCustomerName(customerID string) fetch {
	return fetch{kind: fetchCustomerName, run: func(ctx context.Context) result {
		name := n.catalog.CustomerName(ctx, customerID)
		return result{apply: func(s State) (State, []fetch) {
			if s.CustomerID == customerID {
				s.CustomerName = name
			}
			return s, nil
		}}
	}}
}

func (n *Navigator) loadMenu(restaurantID string, reload bool) fetch {
	return fetch{kind: fetchMenu, run: func(ctx context.Context) result {
		var items []domain.MenuItem
		if reload {
			items = n.catalog.ReloadMenu(ctx, restaurantID)
		} else {
			items = n.catalog.Menu(ctx, restaurantID)
		}
		return result{apply: func(s State) (State, []fetch) {
			if menu, ok := s.Screen.(domain.MenuScreen); ok && menu.Restaurant.ID == restaurantID {
				menu.Items = items
				s.Screen = menu
			}
			return s, nil
		}}
	}}
}

func (n *Navigator) loadHistory(customerID string) fetch {
	return fetch{kind: fetchHistory, run: func(ctx context.Context) result {
		orders := n.catalog.OrderHistory(ctx, customerID)
		return result{apply: func(s State) (State, []fetch) {
			if _, ok := s.Screen.(domain.OrderHistoryScreen); ok {
				s.Screen = domain.OrderHistoryScreen{Orders: orders}
			}
			return s, nil
		}}
	}}
}

func (n *Navigator) loadStatus(orderID string) fetch {
	return fetch{kind: fetchStatus, run: func(ctx context.Context) result {
		snapshot := n.tracker.Fetch(ctx, orderID)
		return result{apply: func(s State) (State, []fetch) {
			if tracking, ok := s.Screen.(domain.TrackingScreen); ok && tracking.OrderID == orderID {
				tracking.Snapshot = &snapshot
				s.Screen = tracking
			}
			return s, nil
		}}
	}}
}

// submitOrder places cart. Whether the result is applied or stale, it
// releases the cart lock taken by submission id.
func (n *Navigator) submitOrder(id uint64, cart *domain.Cart, restaurantID, courierID string) fetch {
	release := func(s State) State {
		if s.PendingSubmit == id {
			s.PendingSubmit = 0
		}
		return s
	}

	return fetch{kind: fetchSubmit, run: func(ctx context.Context) result {
		orderID, err := n.submitter.Submit(ctx, cart, restaurantID, courierID)
		if err != nil {
			n.publishOrder(ctx, domain.EventOrderRejected, cart.CustomerID, "")
			status := SubmitStatus(err)
			return result{
				apply: func(s State) (State, []fetch) {
					s = release(s)
					if menu, ok := s.Screen.(domain.MenuScreen); ok {
						menu.Status = status
						s.Screen = menu
					}
					return s, nil
				},
				always: release,
			}
		}

		n.publishOrder(ctx, domain.EventOrderSubmitted, cart.CustomerID, orderID)
		return result{
			apply: func(s State) (State, []fetch) {
				s = release(s)
				s.Cart = clearedCart(s.Cart)
				s.Screen = domain.TrackingScreen{OrderID: orderID, Notice: StatusOrderPlaced}
				return s, []fetch{n.loadStatus(orderID)}
			},
			// The order exists on the backend even if the user moved on;
			// drop the placed lines so they are not ordered twice.
			always: func(s State) State {
				s = release(s)
				if s.CustomerID == cart.CustomerID && s.Restaurant != nil && s.Restaurant.ID == restaurantID {
					rest := s.Cart.Clone()
					rest.RemoveLines(cart.Lines())
					s.Cart = rest
				}
				return s
			},
		}
	}}
}

func (n *Navigator) publish(ctx context.Context, typ domain.SessionEventType, s State) {
	orderID := ""
	if tracking, ok := s.Screen.(domain.TrackingScreen); ok {
		orderID = tracking.OrderID
	}
	n.send(ctx, domain.SessionEvent{
		SessionID:  n.sessionID,
		CustomerID: s.CustomerID,
		Type:       typ,
		Screen:     s.Screen.Name(),
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	})
}

func (n *Navigator) publishOrder(ctx context.Context, typ domain.SessionEventType, customerID, orderID string) {
	n.send(ctx, domain.SessionEvent{
		SessionID:  n.sessionID,
		CustomerID: customerID,
		Type:       typ,
		Screen:     domain.ScreenMenu,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	})
}

func (n *Navigator) send(ctx context.Context, event domain.SessionEvent) {
	if n.events == nil {
		return
	}
	if err := n.events.Publish(ctx, event); err != nil {
		n.log.Warn("event_publish_failed", n.sessionID, "failed to publish session event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()))
	}
}

func render(s State) View {
	v := View{
		Screen:       s.Screen.Name(),
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Cart:         CartView{Lines: s.Cart.Lines(), Total: s.Cart.Total()},
		Submitting:   s.PendingSubmit != 0,
	}
	if s.Restaurant != nil {
		r := *s.Restaurant
		v.Restaurant = &r
	}

	switch sc := s.Screen.(type) {
	case domain.RestaurantListScreen:
		v.Restaurants = sc.Restaurants
	case domain.MenuScreen:
		v.Menu = sc.Items
		v.Status = sc.Status
	case domain.TrackingScreen:
		v.OrderID = sc.OrderID
		v.Notice = sc.Notice
		if sc.Snapshot != nil {
			d := *sc.Snapshot
			v.Delivery = &d
		}
	case domain.OrderHistoryScreen:
		v.Orders = sc.Orders
	}
	return v
}
