package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/shopmate/storefront/internal/domain"
	apperrors "github.com/shopmate/storefront/pkg/errors"
)

type storeTestContext struct {
	store    *Store
	products map[string]domain.Product
	lastErr  error
}

func (c *storeTestContext) reset() {
	c.store = newTestStore()
	c.products = make(map[string]domain.Product)
	c.lastErr = nil
}

func (c *storeTestContext) product(name string) (domain.Product, error) {
	p, ok := c.products[name]
	if !ok {
		return domain.Product{}, fmt.Errorf("unknown product %q in scenario", name)
	}
	return p, nil
}

func (c *storeTestContext) anEmptyStore() error {
	c.reset()
	return nil
}

func (c *storeTestContext) aProductPriced(name, price string) error {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.products[name] = domain.Product{ID: domain.ProductID(name), Title: name, Price: d}
	return nil
}

func (c *storeTestContext) iAddToTheCart(name string) error {
	return c.iAddToTheCartTimes(name, 1)
}

func (c *storeTestContext) iAddToTheCartTimes(name string, times int) error {
	p, err := c.product(name)
	if err != nil {
		return err
	}
	for range times {
		c.lastErr = c.store.AddToCart(context.Background(), p)
	}
	return nil
}

func (c *storeTestContext) iRemoveFromTheCart(name string) error {
	c.lastErr = c.store.RemoveFromCart(context.Background(), domain.ProductID(name))
	return nil
}

func (c *storeTestContext) iSetTheQuantityOfTo(name string, quantity int) error {
	c.lastErr = c.store.UpdateQuantity(context.Background(), domain.ProductID(name), quantity)
	return nil
}

func (c *storeTestContext) iDecreaseTheQuantityOf(name string) error {
	c.lastErr = c.store.DecreaseQuantity(context.Background(), domain.ProductID(name))
	return nil
}

func (c *storeTestContext) iToggleInTheWishlist(name string) error {
	p, err := c.product(name)
	if err != nil {
		return err
	}
	_, c.lastErr = c.store.ToggleWishlist(context.Background(), p)
	return nil
}

func (c *storeTestContext) iToggleIDInTheWishlist(name string) error {
	_, c.lastErr = c.store.ToggleWishlistByID(context.Background(), domain.ProductID(name))
	return nil
}

func (c *storeTestContext) iClearTheCart() error {
	c.store.ClearCart(context.Background())
	return nil
}

func (c *storeTestContext) theCartHasLines(n int) error {
	if got := len(c.store.Snapshot().CartItems); got != n {
		return fmt.Errorf("expected %d cart lines, got %d", n, got)
	}
	return nil
}

func (c *storeTestContext) theCartIsEmpty() error {
	return c.theCartHasLines(0)
}

func (c *storeTestContext) theCartLineForHasQuantity(name string, quantity int) error {
	for _, l := range c.store.Snapshot().CartItems {
		if l.ID == domain.ProductID(name) {
			if l.Quantity != quantity {
				return fmt.Errorf("expected quantity %d for %s, got %d", quantity, name, l.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no cart line for %s", name)
}

func (c *storeTestContext) theTotalPriceIs(want string) error {
	if got := c.store.TotalPrice(); got != want {
		return fmt.Errorf("expected total %s, got %s", want, got)
	}
	return nil
}

func (c *storeTestContext) theWishlistContains(name string) error {
	if !c.store.IsWishlisted(domain.ProductID(name)) {
		return fmt.Errorf("expected %s in the wishlist", name)
	}
	return nil
}

func (c *storeTestContext) theWishlistHasEntries(n int) error {
	if got := len(c.store.Snapshot().WishlistItems); got != n {
		return fmt.Errorf("expected %d wishlist entries, got %d", n, got)
	}
	return nil
}

func (c *storeTestContext) theWishlistIsEmpty() error {
	return c.theWishlistHasEntries(0)
}

func (c *storeTestContext) theLastOperationReported(kind string) error {
	var target error
	switch kind {
	case "not found":
		target = apperrors.ErrNotFound
	case "invalid input":
		target = apperrors.ErrInvalidInput
	default:
		return fmt.Errorf("unknown outcome %q", kind)
	}
	if !errors.Is(c.lastErr, target) {
		return fmt.Errorf("expected %s, got %v", kind, c.lastErr)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storeTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty store$`, tc.anEmptyStore)
	ctx.Step(`^a product "([^"]*)" priced (-?\d+(?:\.\d+)?)$`, tc.aProductPriced)

	// When steps
	ctx.Step(`^I add "([^"]*)" to the cart$`, tc.iAddToTheCart)
	ctx.Step(`^I add "([^"]*)" to the cart (\d+) times$`, tc.iAddToTheCartTimes)
	ctx.Step(`^I remove "([^"]*)" from the cart$`, tc.iRemoveFromTheCart)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I decrease the quantity of "([^"]*)"$`, tc.iDecreaseTheQuantityOf)
	ctx.Step(`^I toggle "([^"]*)" in the wishlist$`, tc.iToggleInTheWishlist)
	ctx.Step(`^I toggle id "([^"]*)" in the wishlist$`, tc.iToggleIDInTheWishlist)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart line for "([^"]*)" has quantity (\d+)$`, tc.theCartLineForHasQuantity)
	ctx.Step(`^the total price is "([^"]*)"$`, tc.theTotalPriceIs)
	ctx.Step(`^the wishlist contains "([^"]*)"$`, tc.theWishlistContains)
	ctx.Step(`^the wishlist has (\d+) entr(?:y|ies)$`, tc.theWishlistHasEntries)
	ctx.Step(`^the wishlist is empty$`, tc.theWishlistIsEmpty)
	ctx.Step(`^the last operation reported "([^"]*)"$`, tc.theLastOperationReported)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
