package statemachine

import (
	"strings"

	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
)

// Actor is the category of participant triggering a transition. Which scopes
// place a caller into a category is the handlers' concern; the table below
// only fixes what each category may do.
type Actor string

const (
	ActorCustomer   Actor = "customer"
	ActorRestaurant Actor = "restaurant"
	ActorCourier    Actor = "courier"
	ActorDispatcher Actor = "dispatcher"
	ActorSupport    Actor = "support"
)

// Transition defines a valid state change and who can perform it.
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition. Orders move
// created → confirmed → preparing → ready → assigned → picked_up → delivered,
// with cancellation reachable up to assigned and refund only out of delivered
// or cancelled.
var validTransitions = []Transition{
	{From: models.StatusCreated, To: models.StatusConfirmed, Actor: ActorRestaurant},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorRestaurant},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorRestaurant},

	// A courier accepts the delivery, or a dispatcher assigns one explicitly.
	{From: models.StatusReady, To: models.StatusAssigned, Actor: ActorCourier},
	{From: models.StatusReady, To: models.StatusAssigned, Actor: ActorDispatcher},

	{From: models.StatusAssigned, To: models.StatusPickedUp, Actor: ActorCourier},
	{From: models.StatusPickedUp, To: models.StatusDelivered, Actor: ActorCourier},

	// Customers may back out only before the kitchen starts; restaurant and
	// dispatch can cancel anything not yet picked up.
	{From: models.StatusCreated, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusCreated, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusCreated, To: models.StatusCancelled, Actor: ActorDispatcher},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorDispatcher},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorDispatcher},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorDispatcher},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: ActorDispatcher},

	{From: models.StatusDelivered, To: models.StatusRefunded, Actor: ActorSupport},
	{From: models.StatusCancelled, To: models.StatusRefunded, Actor: ActorSupport},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// Lookup maps built once from the table: full (from,to,actor) for O(1)
// checks, plus the bare state graph so a wrong-state failure can be told
// apart from a wrong-actor one.
var (
	transitionMap = map[transitionKey]bool{}
	stateGraph    = map[models.OrderStatus]map[models.OrderStatus]bool{}
)

func init() {
	for _, t := range validTransitions {
		transitionMap[transitionKey{t.From, t.To, t.Actor}] = true
		if stateGraph[t.From] == nil {
			stateGraph[t.From] = map[models.OrderStatus]bool{}
		}
		stateGraph[t.From][t.To] = true
	}
}

// ValidTransitionsFrom returns all states reachable from the given state.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// requiredStatesFor lists the states a transition into `to` may start from.
func requiredStatesFor(to models.OrderStatus) string {
	var froms []string
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.To == to && !seen[t.From] {
			froms = append(froms, string(t.From))
			seen[t.From] = true
		}
	}
	return strings.Join(froms, " or ")
}

// CanTransition validates one proposed transition. A move the state graph
// does not permit at all is a DomainError naming the required prior state; a
// permitted move attempted by the wrong actor category is an authorization
// failure. The two are never conflated.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if !stateGraph[from][to] {
		return apperr.WrongState("order cannot move to "+string(to), string(from), requiredStatesFor(to))
	}
	if !transitionMap[transitionKey{from, to, actor}] {
		return apperr.Forbidden("order transition to "+string(to), 0)
	}
	return nil
}

// AllTransitions returns the full table, used by the public state-machine
// documentation endpoint.
func AllTransitions() []Transition {
	return validTransitions
}
