package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"krubolab/internal/commerce"
	"krubolab/internal/model"
	"krubolab/internal/money"
	"krubolab/internal/shopclient"
)

const usageText = `commands:
  products [-limit n] [-offset n] [-search q] [-material m]
                                      list the catalogue
  search <query>                      find products and services
  cart                                show the cart
  add <id> [-qty n] [-color c] [-size s]
  remove <id>
  qty <id> <n>                        n <= 0 removes the line
  variant <id> [-color c] [-size s]
  favorites                           show favorites
  fav <id>                            toggle a favorite
  move <id>                           move a favorite to the cart
  checkout -email e -name n -doc d -phone p -department d -city c -locality l -street s
  login <password>
  logout
  config                              show the public backend configuration`

// searchLimit is the largest product page the search command asks for.
const searchLimit = 100

type shop struct {
	store  *commerce.Store
	client *shopclient.Client
	out    io.Writer
	unsubs []func()
}

func newShop(store *commerce.Store, client *shopclient.Client, out io.Writer) *shop {
	s := &shop{store: store, client: client, out: out}
	s.unsubs = append(s.unsubs,
		store.Bus.Subscribe(commerce.CartChanged, s.badge),
		store.Bus.Subscribe(commerce.FavoritesChanged, s.badge),
	)
	return s
}

func (s *shop) close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
}

// badge prints the cart and favorites counters after every collection write.
func (s *shop) badge() {
	fmt.Fprintf(s.out, "[cart: %d | favorites: %d]\n", s.store.Cart.Count(), s.store.Favorites.Count())
}

func (s *shop) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "products":
		return s.products(ctx, args)
	case "search":
		return s.search(ctx, args)
	case "cart":
		s.printItems("cart", s.store.Cart.Items())
		return nil
	case "add":
		return s.add(ctx, args)
	case "remove":
		return s.remove(args)
	case "qty":
		return s.quantity(args)
	case "variant":
		return s.variant(args)
	case "favorites":
		s.printItems("favorites", s.store.Favorites.Items())
		return nil
	case "fav":
		return s.toggleFavorite(ctx, args)
	case "move":
		return s.move(args)
	case "checkout":
		return s.checkout(ctx, args)
	case "login":
		return s.login(ctx, args)
	case "logout":
		s.store.Session.Clear()
		fmt.Fprintln(s.out, "logged out")
		return nil
	case "config":
		return s.backendConfig(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *shop) products(ctx context.Context, args []string) error {
	fs := newFlagSet("products", s.out)
	limit := fs.Int("limit", 10, "page size")
	offset := fs.Int("offset", 0, "page offset")
	search := fs.String("search", "", "match name, description, materials or colours")
	material := fs.String("material", "", "only products made of this material")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := model.ProductFilter{Search: *search, Material: *material}
	products, err := s.client.SearchProducts(ctx, filter, *limit, *offset)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "no products")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "%-12s %-32s %s\n", p.ID, p.Name, money.Format(p.Price))
	}
	return nil
}

// search looks the query up in both catalogues, as the storefront search box does.
func (s *shop) search(ctx context.Context, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("usage: search <query>")
	}

	products, err := s.client.SearchProducts(ctx, model.ProductFilter{Search: query}, searchLimit, 0)
	if err != nil {
		return err
	}
	services, err := s.client.Services(ctx, query)
	if err != nil {
		return err
	}

	if len(products) == 0 && len(services) == 0 {
		fmt.Fprintf(s.out, "no results for %q\n", query)
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "product  %-12s %-32s %s\n", p.ID, p.Name, money.Format(p.Price))
	}
	for _, o := range services {
		fmt.Fprintf(s.out, "service  %-12s %-32s %s\n", o.ID, o.Name, money.Format(o.Price))
	}
	return nil
}

func (s *shop) add(ctx context.Context, args []string) error {
	id, rest, err := requireID("add", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("add", s.out)
	qty := fs.Int("qty", 1, "quantity")
	color := fs.String("color", "", "color")
	size := fs.String("size", "", "size")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	product, err := s.client.Product(ctx, id)
	if err != nil {
		return err
	}

	item := commerce.NewItem(*product, commerce.Variant{Color: color, Size: size})
	if err := s.store.Cart.Add(item, *qty); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "added %s to the cart\n", product.Name)
	return nil
}

func (s *shop) remove(args []string) error {
	id, _, err := requireID("remove", args)
	if err != nil {
		return err
	}
	if !s.store.Cart.Remove(id) {
		fmt.Fprintf(s.out, "%s is not in the cart\n", id)
	}
	return nil
}

func (s *shop) quantity(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qty <id> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	if !s.store.Cart.SetQuantity(args[0], n) {
		fmt.Fprintf(s.out, "%s is not in the cart\n", args[0])
	}
	return nil
}

func (s *shop) variant(args []string) error {
	id, rest, err := requireID("variant", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("variant", s.out)
	color := fs.String("color", "", "color")
	size := fs.String("size", "", "size")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	// Only flags given on the command line change the line.
	var v commerce.Variant
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			v.Color = color
		case "size":
			v.Size = size
		}
	})
	if v.Color == nil && v.Size == nil {
		return errors.New("variant needs -color and/or -size")
	}

	if !s.store.Cart.SetVariant(id, v) {
		fmt.Fprintf(s.out, "%s is not in the cart\n", id)
	}
	return nil
}

func (s *shop) toggleFavorite(ctx context.Context, args []string) error {
	id, _, err := requireID("fav", args)
	if err != nil {
		return err
	}

	var item commerce.Item
	if s.store.Favorites.Contains(id) {
		item = commerce.Item{ID: id}
	} else {
		product, err := s.client.Product(ctx, id)
		if err != nil {
			return err
		}
		item = commerce.NewItem(*product, commerce.Variant{})
	}

	on, err := s.store.Favorites.Toggle(item)
	if err != nil {
		return err
	}
	if on {
		fmt.Fprintf(s.out, "%s added to favorites\n", id)
	} else {
		fmt.Fprintf(s.out, "%s removed from favorites\n", id)
	}
	return nil
}

func (s *shop) move(args []string) error {
	id, _, err := requireID("move", args)
	if err != nil {
		return err
	}

	moved, empty := s.store.Favorites.MoveToCart(id, s.store.Cart)
	if !moved {
		fmt.Fprintf(s.out, "%s is not in favorites\n", id)
		return nil
	}
	if empty {
		fmt.Fprintln(s.out, "favorites is now empty")
	}
	return nil
}

func (s *shop) checkout(ctx context.Context, args []string) error {
	fs := newFlagSet("checkout", s.out)
	var c model.Customer
	fs.StringVar(&c.Email, "email", "", "email")
	fs.StringVar(&c.FullName, "name", "", "full name")
	fs.StringVar(&c.IdentificationType, "doc-type", model.DefaultIdentificationType, "identification type")
	fs.StringVar(&c.IdentificationNumber, "doc", "", "identification number")
	fs.StringVar(&c.Phone, "phone", "", "phone")
	fs.StringVar(&c.Department, "department", "", "department")
	fs.StringVar(&c.City, "city", "", "city")
	fs.StringVar(&c.Locality, "locality", "", "locality")
	fs.StringVar(&c.Street, "street", "", "street")
	fs.StringVar(&c.AdditionalInfo, "info", "", "additional delivery information")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items := s.store.Cart.Items()
	if len(items) == 0 {
		return errors.New("the cart is empty")
	}

	resp, err := s.client.Checkout(ctx, c, items)
	if err != nil {
		// The cart is kept so the order can be retried.
		return fmt.Errorf("checkout failed: %w", err)
	}

	s.store.Cart.Clear()
	fmt.Fprintf(s.out, "order %s placed, total %s\n", resp.Order.OrderNumber, money.Format(resp.Order.Subtotal))
	fmt.Fprintf(s.out, "confirm on WhatsApp: %s\n", resp.WhatsAppURL)
	return nil
}

func (s *shop) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <password>")
	}

	if err := s.client.Login(ctx, args[0]); err != nil {
		var apiErr *shopclient.APIError
		if !errors.As(err, &apiErr) {
			// Transport failures leave an existing session alone.
			return err
		}
		if apiErr.StatusCode == http.StatusUnauthorized {
			s.store.Session.SetAuthenticated(false)
		}
		return errors.New(apiErr.Message)
	}

	s.store.Session.SetAuthenticated(true)
	s.store.Session.MarkActiveTab(fmt.Sprintf("shop-%d", os.Getpid()))
	fmt.Fprintln(s.out, "logged in")
	return nil
}

func (s *shop) backendConfig(ctx context.Context) error {
	cfg, err := s.client.BackendConfig(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "url: %s\nanonKey: %s\n", cfg.URL, cfg.AnonKey)
	return nil
}

func (s *shop) printItems(title string, items []commerce.Item) {
	if len(items) == 0 {
		fmt.Fprintf(s.out, "%s is empty\n", title)
		return
	}
	for _, item := range items {
		var variant []string
		if item.Color != "" {
			variant = append(variant, "color: "+item.Color)
		}
		if item.Size != "" {
			variant = append(variant, "size: "+item.Size)
		}
		line := fmt.Sprintf("%-12s %s x%d", item.ID, item.Name, item.Quantity)
		if len(variant) > 0 {
			line += " (" + strings.Join(variant, ", ") + ")"
		}
		fmt.Fprintf(s.out, "%s  %s\n", line, money.Format(item.LineTotal()))
	}
	fmt.Fprintf(s.out, "Subtotal: %s\n", money.Format(commerce.Subtotal(items)))
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func requireID(cmd string, args []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("usage: %s <id>", cmd)
	}
	return args[0], args[1:], nil
}
