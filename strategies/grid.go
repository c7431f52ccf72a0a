package strategies

import "github.com/rustyeddy/quantrisk/backtest"

type GridParams struct {
	Levels  int     `json:"levels" yaml:"levels"`
	Spacing float64 `json:"spacing" yaml:"spacing"`
}

func DefaultGridParams() GridParams {
	return GridParams{Levels: 10, Spacing: 0.02}
}

type gridOrder struct {
	price  float64
	amount float64
	action backtest.Action
	filled bool
}

// Grid lays a ladder of resting orders around the first close it sees: buys
// below, sells above, one level per spacing step. A filled buy immediately
// rests a paired sell one spacing above its own price.
type Grid struct {
	params GridParams
	orders []*gridOrder
	seeded bool
}

func NewGrid(params GridParams) *Grid {
	return &Grid{params: params}
}

func (g *Grid) Name() string { return "grid" }

func (g *Grid) OnBar(bar backtest.Bar, acct backtest.Account) []backtest.Signal {
	if !g.seeded {
		g.seed(bar.Close, acct.Balance)
		g.seeded = true
	}

	var signals []backtest.Signal
	// Iterate by index: a buy fill appends its paired sell, and that sell
	// must not fill on the same bar it was created.
	pending := len(g.orders)
	for i := 0; i < pending; i++ {
		order := g.orders[i]
		if order.filled {
			continue
		}

		switch order.action {
		case backtest.Buy:
			if bar.Low <= order.price {
				signals = append(signals, backtest.Signal{
					Action: backtest.Buy,
					Price:  order.price,
					Amount: order.amount,
					Reason: "grid buy level",
				})
				order.filled = true
				g.orders = append(g.orders, &gridOrder{
					price:  order.price * (1 + g.params.Spacing),
					amount: order.amount,
					action: backtest.Sell,
				})
			}
		case backtest.Sell:
			if bar.High >= order.price {
				signals = append(signals, backtest.Signal{
					Action: backtest.Sell,
					Price:  order.price,
					Amount: order.amount,
					Reason: "grid sell level",
				})
				order.filled = true
			}
		}
	}
	return signals
}

func (g *Grid) seed(close, balance float64) {
	perLevel := balance / float64(g.params.Levels*2)
	half := g.params.Levels / 2

	for i := -half; i <= half; i++ {
		price := close * (1 + float64(i)*g.params.Spacing)
		if price <= 0 || i == 0 {
			continue
		}
		action := backtest.Sell
		if i < 0 {
			action = backtest.Buy
		}
		g.orders = append(g.orders, &gridOrder{
			price:  price,
			amount: perLevel / price,
			action: action,
		})
	}
}

// PendingOrders counts orders still resting on the grid.
func (g *Grid) PendingOrders() int {
	n := 0
	for _, o := range g.orders {
		if !o.filled {
			n++
		}
	}
	return n
}
