package engine

import (
	"fmt"
	"time"

	"exchangecore/internal/common"
)

// validate enforces spec.md §3's required-field rules and §7's
// InvalidOrder/InvalidPrice taxonomy before an order is ever assigned a
// CreatedSeq. It never mutates o.
func validate(o *common.Order) error {
	if o.ID == "" {
		return fmt.Errorf("%w: missing order id", ErrInvalidOrder)
	}
	if o.Symbol == "" {
		return fmt.Errorf("%w: missing symbol", ErrInvalidOrder)
	}
	if !o.Quantity.Positive() {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}

	needsLimitPrice := o.Kind == common.Limit || o.Kind == common.StopLimit || o.Kind == common.Iceberg
	if needsLimitPrice {
		if !o.LimitPrice.Positive() {
			return fmt.Errorf("%w: limit price required for %v", ErrInvalidPrice, o.Kind)
		}
	}

	needsStopPrice := o.Kind == common.StopMarket || o.Kind == common.StopLimit
	if needsStopPrice {
		if !o.StopPrice.Positive() {
			return fmt.Errorf("%w: stop price required for %v", ErrInvalidOrder, o.Kind)
		}
	}

	if o.Kind == common.Iceberg {
		if !o.DisplayQty.Positive() || o.DisplayQty.Cmp(o.Quantity) > 0 {
			return fmt.Errorf("%w: iceberg display_qty must be in (0, quantity]", ErrInvalidOrder)
		}
		if o.TIF == common.FOK {
			return fmt.Errorf("%w: iceberg cannot be fill-or-kill", ErrInvalidOrder)
		}
	}
	if o.Kind == common.Market && o.TIF == common.FOK {
		// Market+FOK is unusual but not excluded by spec.md; only Iceberg is
		// explicitly forbidden from Market/FOK. It is allowed: the FOK
		// dry-run checks the whole opposing side, and the order either fills
		// in full or is rejected with FOKUnfillable.
	}
	if o.TIF == common.GTD && o.GTDExpiry.IsZero() {
		return fmt.Errorf("%w: gtd order missing expiry", ErrInvalidOrder)
	}
	if o.TIF == common.PostOnly && o.Kind != common.Limit {
		return fmt.Errorf("%w: post-only requires a limit order", ErrInvalidOrder)
	}
	return nil
}

// gtdExpired is a small helper used by Tick to decide if a resting GTD
// order has reached its scheduled expiry.
func gtdExpired(o *common.Order, now time.Time) bool {
	return o.TIF == common.GTD && !o.GTDExpiry.IsZero() && !now.Before(o.GTDExpiry)
}
