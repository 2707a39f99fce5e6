package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
)

// model lleva la cuenta esperada: stock = inicial + líneas de compras recibidas vigentes − líneas vendidas.
type model struct {
	initial   map[string]int
	sold      map[string]int
	purchases map[string]*entity.Purchase
}

func (m *model) expected(productID string) int {
	n := m.initial[productID] - m.sold[productID]
	for _, p := range m.purchases {
		if !p.IsReceived() {
			continue
		}
		for _, it := range p.Items {
			if it.ProductID == productID {
				n += it.Quantity
			}
		}
	}
	return n
}

func TestInvariantes_SecuenciaAleatoria(t *testing.T) {
	products := []string{breadID, croissantID, cakeID}
	initial := map[string]int{breadID: 10, croissantID: 3, cakeID: 0}
	e := newEngine(t, initial)
	m := &model{initial: initial, sold: map[string]int{}, purchases: map[string]*entity.Purchase{}}
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	randomLines := func() []inventory.PurchaseLine {
		n := 1 + rng.Intn(3)
		lines := make([]inventory.PurchaseLine, n)
		for i := range lines {
			lines[i] = pline(products[rng.Intn(len(products))], 1+rng.Intn(15))
		}
		return lines
	}
	randomStatus := func() string {
		if rng.Intn(2) == 0 {
			return entity.PurchaseStatusPending
		}
		return entity.PurchaseStatusReceived
	}

	for step := 0; step < 300; step++ {
		switch rng.Intn(3) {
		case 0:
			n := 1 + rng.Intn(3)
			lines := make([]inventory.OrderLine, n)
			for i := range lines {
				lines[i] = line(products[rng.Intn(len(products))], 1+rng.Intn(6))
			}
			order, err := e.orders.ProcessOrder(ctx, customer(), lines)
			if err == nil {
				for _, it := range order.Items {
					m.sold[it.ProductID] += it.Quantity
				}
			} else {
				require.True(t, errors.Is(err, domain.ErrInsufficientStock), "paso %d: %v", step, err)
			}
		case 1:
			p, err := e.purchases.ProcessPurchase(ctx, supplier(randomStatus()), randomLines())
			require.NoError(t, err, "paso %d", step)
			m.purchases[p.ID] = p
		default:
			if len(m.purchases) == 0 {
				continue
			}
			ids := make([]string, 0, len(m.purchases))
			for id := range m.purchases {
				ids = append(ids, id)
			}
			// orden estable para que la semilla reproduzca la misma secuencia
			sort.Strings(ids)
			id := ids[rng.Intn(len(ids))]
			p, err := e.purchases.UpdatePurchase(ctx, id, supplier(randomStatus()), randomLines())
			if err == nil {
				m.purchases[id] = p
			} else {
				require.True(t, errors.Is(err, domain.ErrInsufficientStock), "paso %d: %v", step, err)
			}
		}

		for _, id := range products {
			got := e.stockOf(t, id)
			require.GreaterOrEqual(t, got, 0, "paso %d: stock negativo en %s", step, id)
			require.Equal(t, m.expected(id), got, "paso %d: stock de %s", step, id)
		}
	}
}
