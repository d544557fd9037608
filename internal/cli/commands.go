package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sangkips/pedidos-api/pkg/orderview"
	"github.com/sangkips/pedidos-api/pkg/pedidosclient"
)

func newLoginCommand(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			token, err := c.Login(ctx, username, password)
			if err != nil {
				return err
			}
			if ok, err := p.structured(map[string]string{"token": token}); ok {
				return err
			}
			p.line("%s", token)
			p.line("# export PEDIDOS_TOKEN=%s", token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// orderFlags are the editable fields of an order
type orderFlags struct {
	record orderview.Record
}

// overlay copies onto base only the fields whose flag was set
func (f *orderFlags) overlay(fs *pflag.FlagSet, base orderview.Record) orderview.Record {
	set := func(name string) bool { return fs.Changed(name) }
	if set("pedido") {
		base.OrderLabel = f.record.OrderLabel
	}
	if set("cliente") {
		base.Customer = f.record.Customer
	}
	if set("tienda") {
		base.Store = f.record.Store
	}
	if set("descripcion") {
		base.Description = f.record.Description
	}
	if set("estado") {
		base.Status = f.record.Status
	}
	if set("costo") {
		base.Cost = f.record.Cost
	}
	if set("envio") {
		base.ShippingCost = f.record.ShippingCost
	}
	if set("costo-compra") {
		base.PurchaseCost = f.record.PurchaseCost
	}
	return base
}

func (f *orderFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.record.OrderLabel, "pedido", "", "order label")
	fs.StringVar(&f.record.Customer, "cliente", "", "customer")
	fs.StringVar(&f.record.Store, "tienda", "", "store")
	fs.StringVar(&f.record.Description, "descripcion", "", "description")
	fs.StringVar(&f.record.Status, "estado", "", "status")
	fs.Float64Var(&f.record.Cost, "costo", 0, "sale price")
	fs.Float64Var(&f.record.ShippingCost, "envio", 0, "shipping cost")
	fs.Float64Var(&f.record.PurchaseCost, "costo-compra", 0, "purchase cost")
}

func newOrdersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pedidos",
		Aliases: []string{"orders"},
		Short:   "List and edit orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			records, err := c.Orders(ctx)
			if err != nil {
				return err
			}
			if ok, err := p.structured(records); ok {
				return err
			}
			return printOrders(p, records)
		},
	}

	var add orderFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.writeOrder(cmd, "", add.record)
		},
	}
	add.bind(addCmd.Flags())

	var upd orderFlags
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			current, err := c.GetOrder(ctx, args[0])
			if err != nil {
				return fmt.Errorf("loading order %s: %w", args[0], err)
			}
			return a.writeOrder(cmd, args[0], upd.overlay(cmd.Flags(), current))
		},
	}
	upd.bind(updateCmd.Flags())

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.DeleteOrder(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Pedido %s eliminado\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, addCmd, updateCmd, deleteCmd)
	return cmd
}

func (a *app) writeOrder(cmd *cobra.Command, id string, r orderview.Record) error {
	c, err := a.authedClient()
	if err != nil {
		return err
	}
	p, err := a.printer()
	if err != nil {
		return err
	}
	ctx, cancel := a.context(cmd)
	defer cancel()

	var saved orderview.Record
	if id == "" {
		saved, err = c.CreateOrder(ctx, r)
	} else {
		saved, err = c.UpdateOrder(ctx, id, r)
	}
	if err != nil {
		return err
	}
	if ok, err := p.structured(saved); ok {
		return err
	}
	return printOrders(p, []orderview.Record{saved})
}

func printOrders(p *printer, records []orderview.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID, r.OrderLabel, r.Customer, r.Store, r.Status,
			orderview.Money(r.Cost), orderview.Money(r.ShippingCost), orderview.Money(r.PurchaseCost),
		})
	}
	return p.table([]string{"ID", "PEDIDO", "CLIENTE", "TIENDA", "ESTADO", "COSTO", "ENVIO", "COMPRA"}, rows)
}

// viewFlags select the visible set and the adjustments
type viewFlags struct {
	filter  string
	columns map[string]string
	adj     orderview.Adjustments
}

func (f *viewFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.filter, "filter", "", "global filter")
	fs.StringToStringVar(&f.columns, "column", nil, "column filters, e.g. --column cliente=ana")
	fs.Float64Var(&f.adj.Commission, "comision", 0, "commission")
	fs.Float64Var(&f.adj.ImportTaxCustomer, "impuestos-cliente", 0, "import tax charged to the customer")
	fs.Float64Var(&f.adj.ImportTaxSupplier, "impuestos-proveedor", 0, "import tax paid to the supplier")
	fs.Float64Var(&f.adj.ShippingManual, "envio-manual", 0, "extra shipping")
	fs.Float64Var(&f.adj.Deposit, "anticipo", 0, "deposit already paid")
	fs.Float64Var(&f.adj.Discounts, "descuentos", 0, "discounts")
}

func (f *viewFlags) state() (orderview.ViewState, error) {
	state := orderview.NewViewState().WithGlobalFilter(f.filter).WithAdjustments(f.adj)
	names := make([]string, 0, len(f.columns))
	for name := range f.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	seen := make(map[orderview.Column]string, len(names))
	for _, name := range names {
		column, ok := orderview.ParseColumn(name)
		if !ok || !column.Filterable() {
			return state, fmt.Errorf("column %q cannot be filtered", name)
		}
		if prev, dup := seen[column]; dup {
			return state, fmt.Errorf("columns %q and %q filter the same field", prev, name)
		}
		seen[column] = name
		state = state.WithColumnFilter(column, f.columns[name])
	}
	return state, nil
}

func (a *app) session(cmd *cobra.Command, flags *viewFlags) (*pedidosclient.Session, error) {
	c, err := a.authedClient()
	if err != nil {
		return nil, err
	}
	state, err := flags.state()
	if err != nil {
		return nil, err
	}
	ctx, cancel := a.context(cmd)
	defer cancel()

	s := pedidosclient.NewSession(c)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.SetState(state)
	return s, nil
}

func newReceiptCommand(a *app) *cobra.Command {
	var flags viewFlags
	var phone, shareBase string
	cmd := &cobra.Command{
		Use:     "recibo",
		Aliases: []string{"receipt"},
		Short:   "Print the receipt of the filtered orders and its share link",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer()
			if err != nil {
				return err
			}
			s, err := a.session(cmd, &flags)
			if err != nil {
				return err
			}

			text, link := s.Receipt(orderview.DefaultReceiptFormatter(), shareBase, phone, time.Now())
			if ok, err := p.structured(map[string]any{"texto": text, "url": link, "totales": s.View().Totals}); ok {
				return err
			}
			p.line("%s", text)
			p.line("")
			p.line("%s", link)
			return nil
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().StringVar(&phone, "phone", "", "phone number for the share link")
	cmd.Flags().StringVar(&shareBase, "share-url", orderview.DefaultShareBaseURL, "share link base URL")
	return cmd
}

func newSummaryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resumen",
		Aliases: []string{"summary"},
		Short:   "Save, list and delete summaries",
	}

	var flags viewFlags
	var key string
	save := &cobra.Command{
		Use:   "save",
		Short: "Store the summary of the filtered orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer()
			if err != nil {
				return err
			}
			s, err := a.session(cmd, &flags)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			saved, err := s.SaveSummary(ctx, key)
			if err != nil {
				return fmt.Errorf("saving summary: %w", err)
			}
			if ok, err := p.structured(saved); ok {
				return err
			}
			p.line("Resumen %s guardado: %d pedidos, total %s, ganancia %s",
				saved.ID, len(saved.Details), orderview.Money(saved.FinalTotal), orderview.Money(saved.Profit))
			return nil
		},
	}
	flags.bind(save.Flags())
	save.Flags().StringVar(&key, "idempotency-key", "", "Idempotency-Key header for safe retries")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored summaries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			summaries, err := c.ListSummaries(ctx)
			if err != nil {
				return err
			}
			if ok, err := p.structured(summaries); ok {
				return err
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				date := ""
				if s.CreatedAt != nil {
					date = s.CreatedAt.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					s.ID, date, fmt.Sprint(len(s.Details)),
					orderview.Money(s.FinalTotal), orderview.Money(s.SupplierTotal), orderview.Money(s.Profit),
				})
			}
			return p.table([]string{"ID", "FECHA", "PEDIDOS", "TOTAL", "PROVEEDOR", "GANANCIA"}, rows)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.DeleteSummary(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Resumen %s eliminado\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(save, list, deleteCmd)
	return cmd
}

func newProfitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ganancias",
		Aliases: []string{"profit"},
		Short:   "Print the profit table across every stored summary",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			report, err := c.ProfitReport(ctx)
			if err != nil {
				return err
			}
			if ok, err := p.structured(report); ok {
				return err
			}
			rows := make([][]string, 0, len(report.Rows)+1)
			for _, r := range report.Rows {
				rows = append(rows, []string{
					r.OrderLabel, r.Customer, orderview.Money(r.Sale), orderview.Money(r.SupplierCost),
					orderview.Money(r.Profit), fmt.Sprintf("%.2f%%", r.Margin),
				})
			}
			t := report.Totals
			rows = append(rows, []string{
				"TOTAL", "", orderview.Money(t.Sales), orderview.Money(t.SupplierCost),
				orderview.Money(t.Profit), fmt.Sprintf("%.2f%%", t.Margin),
			})
			return p.table([]string{"PEDIDO", "CLIENTE", "VENTA", "COSTO PROVEEDOR", "GANANCIA", "MARGEN"}, rows)
		},
	}
}
