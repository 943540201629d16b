package platform

import (
	"fmt"
	"math"

	"acdm_go/internal/domain"
	"acdm_go/internal/event"
	"acdm_go/pkg/safe"
)

// Order book operations. Orders live in a dense slice so that ids are
// sequential and stable; a filled or canceled order stays in place with
// Active == false and is never reused.

// SetOrder escrows amount tokens from seller and lists them at the given
// unit price. The seller must have approved the platform for at least
// amount beforehand. Returns the new order id.
func (p *Platform) SetOrder(seller string, amount, price int64) (uint64, error) {
	if p.round != domain.RoundTrade {
		return 0, domain.ErrTradeRoundNotActive
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if price <= 0 {
		return 0, domain.ErrInvalidPrice
	}
	// Seller-chosen prices are external input: a listing whose full cost
	// cannot be represented can never be paid, so reject it here.
	if price > math.MaxInt64/amount {
		return 0, domain.ErrInvalidPrice
	}
	if err := p.tokens.TransferFrom(p.cfg.Owner, seller, p.cfg.Owner, amount); err != nil {
		return 0, domain.ErrTransferNotApproved
	}

	id := uint64(len(p.orders))
	ord := &domain.Order{
		ID:              id,
		Seller:          seller,
		RemainingAmount: amount,
		UnitPrice:       price,
		Active:          true,
		CreatedAt:       p.clock(),
	}
	p.orders = append(p.orders, ord)

	p.publish(&event.OrderEvent{
		Type:            event.TypeOrderPlaced,
		Round:           p.roundNum,
		OrderID:         id,
		Seller:          seller,
		RemainingAmount: amount,
		UnitPrice:       price,
		Status:          domain.OrderStatusOpen,
	})
	return id, nil
}

// BuyOrder takes the entire remaining amount of an order. Payment must be
// exactly remaining * unit price. The trade referral skim comes off the
// payment before the seller is credited; whatever part of the skim has no
// registered referrer stays with the platform.
func (p *Platform) BuyOrder(buyer string, id uint64, payment int64) error {
	if p.round != domain.RoundTrade {
		return domain.ErrTradeRoundNotActive
	}
	if p.elapsed(p.clock()) {
		return domain.ErrTradeRoundOver
	}
	ord, err := p.orderByID(id)
	if err != nil {
		return err
	}
	if !ord.Active {
		return domain.ErrOrderInactive
	}
	cost := ord.Cost()
	if payment < cost {
		return domain.ErrInsufficientPayment
	}
	if payment > cost {
		return domain.ErrExcessPayment
	}
	if err := p.bank.Debit(buyer, cost); err != nil {
		return err
	}

	// Effects: deactivate and account before any outbound transfer.
	amount := ord.RemainingAmount
	ord.RemainingAmount = 0
	ord.Active = false
	p.tradeVolume = safe.SafeAdd(p.tradeVolume, cost)

	skim1 := percentage(cost, p.cfg.TradeRefLevel1)
	skim2 := percentage(cost, p.cfg.TradeRefLevel2)
	proceeds := safe.SafeSub(cost, safe.SafeAdd(skim1, skim2))
	claimed := p.payBonuses(ord.Seller, cost, p.cfg.TradeRefLevel1, p.cfg.TradeRefLevel2, domain.TradeSourceOrder)
	p.bank.Credit(p.cfg.Owner, safe.SafeSub(safe.SafeAdd(skim1, skim2), claimed))
	p.bank.Credit(ord.Seller, proceeds)

	if err := p.tokens.Transfer(p.cfg.Owner, buyer, amount); err != nil {
		panic(fmt.Sprintf("ESCROW_TRANSFER_FAILURE: order %d: %v", id, err))
	}

	ev := event.AcquireTradeEvent()
	ev.Round = p.roundNum
	ev.OrderID = id
	ev.Seller = ord.Seller
	ev.Buyer = buyer
	ev.Amount = amount
	ev.Price = ord.UnitPrice
	ev.Cost = cost
	ev.RoundVolume = p.tradeVolume
	p.publish(ev)
	return nil
}

// CancelOrder deactivates an order and returns its escrow to the seller.
// Only the order's owner may cancel, and only once.
func (p *Platform) CancelOrder(caller string, id uint64) error {
	if p.round != domain.RoundTrade {
		return domain.ErrTradeRoundNotActive
	}
	ord, err := p.orderByID(id)
	if err != nil {
		return err
	}
	if caller != ord.Seller {
		return domain.ErrNotOrderOwner
	}
	if !ord.Active {
		return domain.ErrOrderInactive
	}

	amount := ord.RemainingAmount
	ord.RemainingAmount = 0
	ord.Active = false

	if err := p.tokens.Transfer(p.cfg.Owner, ord.Seller, amount); err != nil {
		panic(fmt.Sprintf("ESCROW_REFUND_FAILURE: order %d: %v", id, err))
	}

	p.publish(&event.OrderEvent{
		Type:    event.TypeOrderCanceled,
		Round:   p.roundNum,
		OrderID: id,
		Seller:  ord.Seller,
		Status:  domain.OrderStatusCanceled,
	})
	return nil
}

// closeAllOrders force-closes every active order at the trade->sale
// transition, refunding escrow to each seller. No owner check: this is a
// forced closure, not a cancellation.
func (p *Platform) closeAllOrders() {
	for _, ord := range p.orders {
		if !ord.Active {
			continue
		}
		amount := ord.RemainingAmount
		ord.RemainingAmount = 0
		ord.Active = false

		if err := p.tokens.Transfer(p.cfg.Owner, ord.Seller, amount); err != nil {
			panic(fmt.Sprintf("ESCROW_REFUND_FAILURE: order %d: %v", ord.ID, err))
		}

		p.publish(&event.OrderEvent{
			Type:    event.TypeOrderClosed,
			Round:   p.roundNum,
			OrderID: ord.ID,
			Seller:  ord.Seller,
			Status:  domain.OrderStatusClosed,
		})
	}
}

// Order returns a copy of the order with the given id.
func (p *Platform) Order(id uint64) (domain.Order, error) {
	ord, err := p.orderByID(id)
	if err != nil {
		return domain.Order{}, err
	}
	return *ord, nil
}

// ActiveOrders returns copies of all currently active orders.
func (p *Platform) ActiveOrders() []domain.Order {
	result := make([]domain.Order, 0, len(p.orders))
	for _, ord := range p.orders {
		if ord.Active {
			result = append(result, *ord)
		}
	}
	return result
}

// EscrowTotal returns the sum of remaining amounts over active orders.
func (p *Platform) EscrowTotal() int64 {
	var total int64
	for _, ord := range p.orders {
		if ord.Active {
			total = safe.SafeAdd(total, ord.RemainingAmount)
		}
	}
	return total
}

func (p *Platform) orderByID(id uint64) (*domain.Order, error) {
	if id >= uint64(len(p.orders)) {
		return nil, domain.ErrUnknownOrder
	}
	return p.orders[id], nil
}
