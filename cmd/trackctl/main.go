// trackctl prints an order, or follows it until delivery, through the
// storefront's tracking service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/discovery"
	grpcsvc "github.com/example/freshcart/pkg/grpc"
	"github.com/example/freshcart/pkg/logging"
	"github.com/example/freshcart/pkg/models"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	addr := flag.String("addr", "", "tracking service address, skips discovery")
	watch := flag.Bool("watch", false, "follow the order until it is delivered")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: trackctl [flags] ORDER_ID\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	orderID := flag.Arg(0)

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Log.Encoding = "console"
	cfg.Log.OutputPaths = []string{"stderr"}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sd *discovery.ServiceDiscovery
	if cfg.Etcd.Enabled && *addr == "" {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, logger)
		if err != nil {
			logger.Warn("Failed to connect to etcd", zap.Error(err))
		} else {
			defer sd.Close()
		}
	}

	manager := grpcsvc.NewClientManager(cfg, logger, sd)
	if *addr != "" {
		err = manager.Dial(*addr)
	} else {
		err = manager.Connect(ctx)
	}
	if err != nil {
		logger.Fatal("Failed to connect", zap.Error(err))
	}
	defer manager.Close()

	if err := run(ctx, manager.TrackingClient(), orderID, *watch, os.Stdout); err != nil {
		logger.Error("Tracking failed", zap.String("order_id", orderID), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, client *grpcsvc.TrackingClient, orderID string, watch bool, out io.Writer) error {
	if !watch {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		o, err := client.GetOrder(rctx, orderID)
		if err != nil {
			return err
		}
		printOrder(out, o)
		return nil
	}

	w, err := client.WatchOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for {
		o, err := w.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		printOrder(out, o)
	}
}

func printOrder(out io.Writer, o models.Order) {
	fmt.Fprintf(out, "%s  %-16s  %s  ₹%.2f\n", o.ID, o.Status, o.ShopName, o.Total)
	if o.Tracking != nil {
		fmt.Fprintf(out, "    courier at %.4f,%.4f  eta %s\n", o.Tracking.Latitude, o.Tracking.Longitude, o.Tracking.ETA)
	}
}
