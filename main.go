package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/wyliang/frostorder/internal/cache"
	conf "github.com/wyliang/frostorder/internal/config"
	"github.com/wyliang/frostorder/internal/export"
	"github.com/wyliang/frostorder/internal/importer"
	logs "github.com/wyliang/frostorder/internal/logs"
	"github.com/wyliang/frostorder/internal/orders"
	"github.com/wyliang/frostorder/internal/store"
)

var ver = "1.0.0"

func main() {
	appDir := mustAppDataDir("frostorder")

	cfgPath := filepath.Join(appDir, "config.json")
	cfg, firstRun, err := conf.LoadOrCreate(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logs.New(filepath.Join(appDir, "app.log"), cfg.ConsoleLog)
	if firstRun {
		log.Info().Msgf("created default config: %s", cfgPath)
	}

	ch, err := cache.OpenAt(appDir)
	if err != nil {
		log.Fatal().Err(err).Msg("local cache open error")
	}
	if err := ch.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("local cache migrate error")
	}
	log.Info().Str("db", ch.Path).Msg("local cache ready")

	st, err := store.Open(cfg.Store.Dialect, cfg.Store.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("remote store open error")
	}
	if err := st.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("remote store migrate error")
	}
	log.Info().Str("dialect", cfg.Store.Dialect).Msg("remote store ready")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reader := bufio.NewReader(os.Stdin)
	confirm := func(msg string) bool {
		if cfg.SkipMatchCheck {
			return true
		}
		fmt.Printf("WARNING: %s [y/N] ", msg)
		line, _ := reader.ReadString('\n')
		answer := strings.TrimSpace(strings.ToLower(line))
		return answer == "y" || answer == "yes"
	}

	draft := orders.NewDraftStore(ch)
	engine := orders.NewEngine(log, st, draft)
	imp := importer.New(log, st, confirm)

	unlocked := false
	requireAdmin := func() bool {
		if unlocked {
			return true
		}
		fmt.Print("passcode: ")
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != cfg.AdminPasscode {
			fmt.Println("wrong passcode")
			return false
		}
		unlocked = true
		return true
	}
	prompt := func(label string) string {
		fmt.Print(label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Println("frostorder CLI", ver)
	fmt.Println("type 'help' for commands")

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			cancel()
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "help":
			printHelp()

		case "products":
			products, err := st.Products(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, p := range products {
				img := "-"
				if p.ImageURL != nil {
					img = "yes"
				}
				fmt.Printf("%s  #%s  %-30s  %-20s  image:%s\n", p.ID, p.BatchCode, p.Name, p.CompanyName, img)
			}
			fmt.Printf("%d products\n", len(products))

		case "import":
			// import <sheet.xlsx|csv> [images.zip]
			if !requireAdmin() {
				continue
			}
			if len(args) < 1 {
				fmt.Println("usage: import <sheet.xlsx|csv> [images.zip]")
				continue
			}
			sheet, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			var archive []byte
			if len(args) > 1 {
				archive, err = os.ReadFile(args[1])
				if err != nil {
					fmt.Println("error:", err)
					continue
				}
			}
			company := prompt("company name: ")
			res, err := imp.Run(ctx, sheet, archive, company, func(done, total int) {
				fmt.Printf("\ruploading %d/%d", done, total)
			})
			fmt.Println()
			if errors.Is(err, importer.ErrAborted) {
				fmt.Println("import aborted, nothing written")
				continue
			}
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("imported %d products, batch %s (%d/%d images matched)\n",
				res.Imported, res.BatchCode, res.MatchedImages, res.Imported)

		case "delproducts":
			if !requireAdmin() {
				continue
			}
			if len(args) == 0 {
				fmt.Println("usage: delproducts <product-id> [...]")
				continue
			}
			if err := engine.DeleteProducts(ctx, args, nil); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("deleted")

		case "draft":
			items, err := draft.All()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for pid, it := range items {
				fmt.Printf("%s  qty %v %s  stock %q\n", pid, it.Quantity, it.Unit, it.Stock)
			}
			fmt.Printf("%d draft lines\n", len(items))

		case "order":
			// order <product-id> <qty> <case|piece> [stock note...]
			if len(args) < 3 {
				fmt.Println("usage: order <product-id> <qty> <case|piece> [stock note...]")
				continue
			}
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				fmt.Println("invalid quantity:", args[1])
				continue
			}
			item := orders.DraftItem{
				ProductID: args[0],
				Quantity:  qty,
				Unit:      args[2],
				Stock:     strings.Join(args[3:], " "),
			}
			if err := draft.Set(item); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("draft updated")

		case "remove":
			if len(args) != 1 {
				fmt.Println("usage: remove <product-id>")
				continue
			}
			if err := draft.Remove(args[0]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("removed")

		case "archive":
			sessionID, err := engine.Archive(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("archived as session", sessionID)

		case "history":
			sessions, err := engine.History(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, s := range sessions {
				name := s.Name
				if name == "" {
					name = s.Label
				}
				fmt.Printf("%s  %s  %s  (%d items)\n", s.ID, s.Timestamp, name, len(s.Items))
				for _, it := range s.Items {
					fmt.Printf("  %s  %-30s  %-20s  qty %v %s  stock %q\n",
						it.ID, it.ProductName, it.CompanyName, it.Quantity, it.Unit, it.Stock)
				}
			}

		case "rename":
			if !requireAdmin() {
				continue
			}
			if len(args) < 2 {
				fmt.Println("usage: rename <session-id> <name...>")
				continue
			}
			if err := engine.RenameSession(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("renamed")

		case "delsession":
			if !requireAdmin() {
				continue
			}
			if len(args) != 1 {
				fmt.Println("usage: delsession <session-id>")
				continue
			}
			if err := engine.DeleteSession(ctx, args[0]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("session deleted")

		case "delitem":
			if !requireAdmin() {
				continue
			}
			if len(args) != 1 {
				fmt.Println("usage: delitem <item-id>")
				continue
			}
			if err := engine.DeleteItem(ctx, args[0]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("item deleted")

		case "setqty":
			if !requireAdmin() {
				continue
			}
			if len(args) != 2 {
				fmt.Println("usage: setqty <item-id> <qty>")
				continue
			}
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				fmt.Println("invalid quantity:", args[1])
				continue
			}
			if err := engine.UpdateItem(ctx, args[0], orders.ItemUpdate{Quantity: &qty}); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("updated")

		case "setstock":
			if !requireAdmin() {
				continue
			}
			if len(args) < 1 {
				fmt.Println("usage: setstock <item-id> [stock note...]")
				continue
			}
			stock := strings.Join(args[1:], " ")
			if err := engine.UpdateItem(ctx, args[0], orders.ItemUpdate{Stock: &stock}); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("updated")

		case "additem":
			if !requireAdmin() {
				continue
			}
			if len(args) != 1 {
				fmt.Println("usage: additem <session-id>")
				continue
			}
			qty, err := strconv.ParseFloat(prompt("quantity: "), 64)
			if err != nil {
				fmt.Println("invalid quantity")
				continue
			}
			item := orders.ManualItem{
				ProductName: prompt("product name: "),
				CompanyName: prompt("company name: "),
				Stock:       prompt("stock note: "),
				Quantity:    qty,
				Unit:        prompt("unit [case]: "),
			}
			if err := engine.AppendItem(ctx, args[0], item); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("item added")

		case "export":
			// export <session-id> <file.xlsx>
			if len(args) != 2 {
				fmt.Println("usage: export <session-id> <file.xlsx>")
				continue
			}
			sessions, err := engine.History(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			var rows []export.Row
			found := false
			for _, s := range sessions {
				if s.ID == args[0] {
					rows = export.SessionRows(s)
					found = true
					break
				}
			}
			if !found {
				fmt.Println("no such session")
				continue
			}
			f, err := os.Create(args[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			err = export.WriteOrderSheet(f, rows)
			f.Close()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("written", args[1])

		case "suppliers":
			suppliers, err := st.Suppliers(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, s := range suppliers {
				fmt.Printf("%s  %s\n", s.ID, s.Name)
			}

		case "addsupplier":
			if !requireAdmin() {
				continue
			}
			if len(args) == 0 {
				fmt.Println("usage: addsupplier <name...>")
				continue
			}
			if err := st.AddSupplier(ctx, strings.Join(args, " ")); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("added")

		case "simple":
			sess, err := st.ActiveSimpleSession(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			list, err := st.SimpleOrders(ctx, sess.ID)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("active session", sess.ID)
			for _, o := range list {
				fmt.Printf("%s  %-30s  %-20s  qty %v\n", o.ID, o.ProductName, o.CompanyName, o.Quantity)
			}

		case "simpleadd":
			qty, err := strconv.ParseFloat(prompt("quantity: "), 64)
			if err != nil {
				fmt.Println("invalid quantity")
				continue
			}
			sess, err := st.ActiveSimpleSession(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			o := store.SimpleOrder{
				SessionID:   sess.ID,
				ProductName: prompt("product name: "),
				CompanyName: prompt("company name: "),
				Quantity:    qty,
			}
			if err := st.AddSimpleOrder(ctx, &o); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("added")

		case "simpleend":
			if !requireAdmin() {
				continue
			}
			sess, err := st.ActiveSimpleSession(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if err := st.EndSimpleSession(ctx, sess.ID); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("session ended")

		case "quit", "exit":
			cancel()
			return

		default:
			fmt.Println("unknown command, try 'help'")
		}
	}
}

func printHelp() {
	fmt.Println(`catalog:
  products                                 list the catalog
  import <sheet.xlsx|csv> [images.zip]     bulk import (prompts for company)
  delproducts <product-id> [...]           delete catalog rows
draft:
  draft                                    show the in-progress order
  order <product-id> <qty> <case|piece> [stock note...]
  remove <product-id>
  archive                                  archive the draft into history
history:
  history                                  list archived sessions
  rename <session-id> <name...>
  delsession <session-id>
  delitem <item-id>
  setqty <item-id> <qty>
  setstock <item-id> [stock note...]
  additem <session-id>                     append a manual line item
  export <session-id> <file.xlsx>
misc:
  suppliers | addsupplier <name...>
  simple | simpleadd | simpleend
  quit`)
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
