package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/shared"
)

// LedgerService handles stock movements outside the request lifecycle:
// manual adjustments, transfers between locations, and balance queries.
// Every mutation runs inside a TransactionScope so the ledger row and its
// movement log entry commit together.
type LedgerService struct {
	scope          TransactionScope
	materialRepo   catalog.MaterialRepository
	levelRepo      inventory.InventoryLevelRepository
	txRepo         inventory.MaterialTransactionRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	materialRepo catalog.MaterialRepository,
	levelRepo inventory.InventoryLevelRepository,
	txRepo inventory.MaterialTransactionRepository,
) *LedgerService {
	return &LedgerService{
		scope:        scope,
		materialRepo: materialRepo,
		levelRepo:    levelRepo,
		txRepo:       txRepo,
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger used for advisory stock warnings
func (s *LedgerService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AdjustInventory corrects one account's balance up or down and appends a
// signed ADJUSTMENT entry to the movement log. A decrease larger than the
// current balance is rejected; the account never goes negative.
func (s *LedgerService) AdjustInventory(ctx context.Context, actor shared.Actor, input AdjustInventoryInput) (*TransactionResponse, error) {
	if !actor.CanIssueStock() {
		return nil, shared.ErrUnauthorized
	}
	if !input.AdjustmentType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid adjustment type")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment quantity must be positive")
	}
	if input.Reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment reason is required")
	}

	material, err := s.materialRepo.FindByID(ctx, input.MaterialID)
	if err != nil {
		return nil, shared.ErrMaterialNotFound
	}

	location, err := inventory.NewLocation(input.Location.Type, input.Location.Reference, input.Location.ProjectID)
	if err != nil {
		return nil, err
	}

	signed := input.Quantity
	if input.AdjustmentType == AdjustmentDecrease {
		signed = input.Quantity.Neg()
	}

	var entry *inventory.MaterialTransaction
	var adjusted *inventory.InventoryLevel

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		level, err := s.lockAccount(ctx, repos.Levels(), input.MaterialID, location)
		if err != nil {
			return err
		}

		switch input.AdjustmentType {
		case AdjustmentIncrease:
			if err := level.Credit(input.Quantity); err != nil {
				return err
			}
		case AdjustmentDecrease:
			if err := level.Debit(input.Quantity); err != nil {
				return err
			}
		}

		if err := repos.Levels().Save(ctx, level); err != nil {
			return err
		}

		entry, err = inventory.NewAdjustmentTransaction(input.MaterialID, location, signed, actor.ID)
		if err != nil {
			return err
		}
		entry.WithNotes(input.Reason)
		if material.UnitCost != nil {
			entry.WithCost(*material.UnitCost)
		}
		if err := repos.Transactions().Append(ctx, entry); err != nil {
			return err
		}

		adjusted = level
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.AdjustmentType == AdjustmentIncrease {
		s.publishEvents(ctx, inventory.NewStockCreditedEvent(adjusted, input.Quantity))
	} else {
		s.publishEvents(ctx, inventory.NewStockDebitedEvent(adjusted, input.Quantity))
	}
	s.checkStockBounds(ctx, material, adjusted)

	resp := ToTransactionResponse(entry)
	return &resp, nil
}

// TransferMaterial moves stock between two tracked accounts. The debit and
// the credit commit atomically with one TRANSFER log entry; an insufficient
// source balance aborts the whole movement.
func (s *LedgerService) TransferMaterial(ctx context.Context, actor shared.Actor, input TransferMaterialInput) (*TransactionResponse, error) {
	if !actor.CanIssueStock() {
		return nil, shared.ErrUnauthorized
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer quantity must be positive")
	}

	material, err := s.materialRepo.FindByID(ctx, input.MaterialID)
	if err != nil {
		return nil, shared.ErrMaterialNotFound
	}

	from, err := inventory.NewLocation(input.From.Type, input.From.Reference, input.From.ProjectID)
	if err != nil {
		return nil, err
	}
	to, err := inventory.NewLocation(input.To.Type, input.To.Reference, input.To.ProjectID)
	if err != nil {
		return nil, err
	}
	if from.Equals(to) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer source and destination must differ")
	}

	var entry *inventory.MaterialTransaction
	var source, target *inventory.InventoryLevel

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		src, err := repos.Levels().FindByAccountForUpdate(ctx, input.MaterialID, from)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.ErrInsufficientStock
			}
			return err
		}
		if err := src.Debit(input.Quantity); err != nil {
			return err
		}

		dst, err := repos.Levels().GetOrCreate(ctx, input.MaterialID, to)
		if err != nil {
			return err
		}
		if err := dst.Credit(input.Quantity); err != nil {
			return err
		}

		if err := repos.Levels().Save(ctx, src); err != nil {
			return err
		}
		if err := repos.Levels().Save(ctx, dst); err != nil {
			return err
		}

		entry, err = inventory.NewTransferTransaction(input.MaterialID, from, to, input.Quantity, actor.ID)
		if err != nil {
			return err
		}
		if input.Notes != "" {
			entry.WithNotes(input.Notes)
		}
		if material.UnitCost != nil {
			entry.WithCost(*material.UnitCost)
		}
		if err := repos.Transactions().Append(ctx, entry); err != nil {
			return err
		}

		source, target = src, dst
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx,
		inventory.NewStockDebitedEvent(source, input.Quantity),
		inventory.NewStockCreditedEvent(target, input.Quantity),
	)
	s.checkStockBounds(ctx, material, source)
	s.checkStockBounds(ctx, material, target)

	resp := ToTransactionResponse(entry)
	return &resp, nil
}

// GetBalance returns the live balance for one material-location account.
// An account with no ledger row has a balance of zero.
func (s *LedgerService) GetBalance(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*LevelResponse, error) {
	loc, err := inventory.NewLocation(location.Type, location.Reference, location.ProjectID)
	if err != nil {
		return nil, err
	}

	level, err := s.levelRepo.FindByAccount(ctx, materialID, loc)
	if err != nil {
		if err == shared.ErrNotFound {
			resp := LevelResponse{
				MaterialID:   materialID,
				Location:     loc,
				CurrentStock: decimal.Zero,
			}
			return &resp, nil
		}
		return nil, err
	}

	resp := ToLevelResponse(level)
	return &resp, nil
}

// ListBalances returns a page of ledger rows
func (s *LedgerService) ListBalances(ctx context.Context, filter shared.Filter) (*shared.Paginated[LevelResponse], error) {
	levels, err := s.levelRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.levelRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToLevelResponses(levels), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetMaterialBalances returns every account holding the given material,
// alongside the material's total balance across locations.
func (s *LedgerService) GetMaterialBalances(ctx context.Context, materialID uuid.UUID) ([]LevelResponse, decimal.Decimal, error) {
	if _, err := s.materialRepo.FindByID(ctx, materialID); err != nil {
		return nil, decimal.Zero, shared.ErrMaterialNotFound
	}

	levels, err := s.levelRepo.FindByMaterial(ctx, materialID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total, err := s.levelRepo.SumByMaterial(ctx, materialID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return ToLevelResponses(levels), total, nil
}

// ListTransactions returns a page of movement log entries
func (s *LedgerService) ListTransactions(ctx context.Context, filter shared.Filter) (*shared.Paginated[TransactionResponse], error) {
	txs, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToTransactionResponses(txs), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetMaterialTransactions returns the movement history of one material
func (s *LedgerService) GetMaterialTransactions(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	if _, err := s.materialRepo.FindByID(ctx, materialID); err != nil {
		return nil, shared.ErrMaterialNotFound
	}

	txs, err := s.txRepo.FindByMaterial(ctx, materialID, filter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// GetTransactionsByReference returns the log entries created by one document,
// e.g. all movements behind a single material request.
func (s *LedgerService) GetTransactionsByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]TransactionResponse, error) {
	txs, err := s.txRepo.FindByReference(ctx, refType, refID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// lockAccount loads the account's ledger row with a row lock, creating the
// row first when missing. Creation and locking are separate steps; the
// subsequent locked read is what serializes concurrent writers.
func (s *LedgerService) lockAccount(ctx context.Context, repo inventory.InventoryLevelRepository, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	if _, err := repo.GetOrCreate(ctx, materialID, location); err != nil {
		return nil, err
	}
	return repo.FindByAccountForUpdate(ctx, materialID, location)
}

// checkStockBounds logs a warning when a balance lands outside the material's
// configured min/max window. Bounds are advisory and never block a movement.
func (s *LedgerService) checkStockBounds(ctx context.Context, material *catalog.Material, level *inventory.InventoryLevel) {
	if level == nil {
		return
	}
	min := material.MinimumStockLevel
	max := material.MaximumStockLevel

	below := min.GreaterThan(decimal.Zero) && level.CurrentStock.LessThan(min)
	above := max.GreaterThan(decimal.Zero) && level.CurrentStock.GreaterThan(max)
	if !below && !above {
		return
	}

	s.logger.Warn("stock balance outside configured bounds",
		zap.String("material_code", material.Code),
		zap.String("location", level.Location.String()),
		zap.String("balance", level.CurrentStock.String()),
		zap.String("minimum", min.String()),
		zap.String("maximum", max.String()),
	)
	if s.eventPublisher != nil {
		event := inventory.NewStockOutsideBoundsEvent(level, min, max)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish stock bounds event", zap.Error(err))
		}
	}
}

func (s *LedgerService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
}
