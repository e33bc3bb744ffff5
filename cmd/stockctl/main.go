// Command stockctl reads the back-office API from a terminal.
//
//	stockctl [-addr url] [-token t] [-watch interval] dashboard
//	stockctl inventory
//	stockctl suppliers
//	stockctl pricing <supplier_id> <item>...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/apiclient"
	"github.com/Beka01247/smart-stock/internal/cache"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/env"
	"github.com/Beka01247/smart-stock/internal/fetch"
	"github.com/Beka01247/smart-stock/internal/supplier"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", env.GetString("STOCK_API_URL", "http://localhost:8000"), "API base URL")
	token := flag.String("token", env.GetString("STOCK_API_TOKEN", ""), "bearer token")
	watch := flag.Duration("watch", 0, "refresh interval, 0 prints once")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(*addr, apiclient.WithToken(apiclient.StaticToken(*token)))

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "dashboard":
		err = show(ctx, client, "/api/dashboard", *watch, printDashboard)
	case "inventory":
		err = show(ctx, client, client.Inventory().Path(), *watch, printInventory)
	case "suppliers":
		err = show(ctx, client, "/api/supplier-integrations/suppliers", *watch, printSuppliers)
	case "pricing":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		var prices []supplier.Price
		prices, err = client.Pricing(ctx, args[0], args[1:])
		if err == nil {
			printPrices(prices)
		}
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatalw("command failed", "command", flag.Arg(0), "error", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: stockctl [flags] dashboard|inventory|suppliers|pricing <supplier_id> <item>...\n")
	flag.PrintDefaults()
}

// show fetches path once, or every interval until ctx is done.
func show[T any](ctx context.Context, client *apiclient.Client, path string, interval time.Duration, print func(T)) error {
	q := fetch.New[T](client, cache.New(), path, fetch.Options{})
	defer q.Close()

	render := func(res fetch.Result[T]) error {
		if res.Status == fetch.StatusError {
			return fmt.Errorf("%s", res.ErrorMessage)
		}
		print(res.Data)
		return nil
	}

	q.Load()
	if interval <= 0 {
		return render(q.Wait(ctx))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res := q.Wait(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err := render(res); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			q.Refetch()
		}
	}
}

func printDashboard(d analytics.Dashboard) {
	fmt.Printf("generated %s\n\n", d.GeneratedAt.Format(time.RFC1123))
	fmt.Printf("inventory: %d items worth %.2f, %d low, %d out of stock\n",
		d.Inventory.TotalItems, d.Inventory.TotalValue, d.Inventory.LowStockCount, d.Inventory.OutOfStockCount)
	fmt.Printf("sales: %d records, revenue %.2f, %.2f per day\n\n",
		d.Sales.Records, d.Sales.TotalRevenue, d.Sales.AverageDailyRevenue)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MENU ITEM\tPRICE\tCOST\tMARGIN %")
	for _, m := range d.Menu {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f\n", m.Name, m.Price, m.Cost, m.MarginPercent)
	}
	tw.Flush()
}

func printInventory(items []domain.InventoryItem) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTOCK\tMIN\tUNIT")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%s\n", it.ID.Hex(), it.Name, it.CurrentStock, it.MinStock, it.Unit)
	}
	tw.Flush()
}

func printSuppliers(configs []supplier.Config) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINTEGRATION")
	for _, c := range configs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Kind)
	}
	tw.Flush()
}

func printPrices(prices []supplier.Price) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRICE\tUNIT\tNOTE")
	for _, p := range prices {
		fmt.Fprintf(tw, "%s\t%.2f %s\t%s\t%s\n", p.ItemName, p.Price, p.Currency, p.Unit, p.Note)
	}
	tw.Flush()
}
