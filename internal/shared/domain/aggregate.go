package domain

// AggregateRoot is the consistency boundary of an aggregate. It records the
// domain events raised since it was loaded, for the caller to persist through
// the outbox.
type AggregateRoot interface {
	Entity
	DomainEvents() []DomainEvent
	ClearDomainEvents()
	Version() int
}

// BaseAggregateRoot provides event recording and optimistic-concurrency
// versioning for aggregates.
type BaseAggregateRoot struct {
	BaseEntity
	events  []DomainEvent
	version int
}

// NewBaseAggregateRoot creates an aggregate root with a fresh identity.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

// RehydrateBaseAggregateRoot recreates an aggregate root from persisted state.
func RehydrateBaseAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity, version: version}
}

// DomainEvents returns the uncommitted domain events.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent { return a.events }

// ClearDomainEvents drops all uncommitted domain events.
func (a *BaseAggregateRoot) ClearDomainEvents() { a.events = nil }

// Record appends a domain event to the uncommitted set.
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.events = append(a.events, event)
}

// Version returns the aggregate version used for optimistic concurrency.
func (a *BaseAggregateRoot) Version() int { return a.version }

// IncrementVersion bumps the aggregate version.
func (a *BaseAggregateRoot) IncrementVersion() { a.version++ }
