package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/metaquery"
	"github.com/poiesic/metaquery/core"
)

// A small built-in catalog for local experiments, shaped like an
// e-commerce analytics schema.
var sampleCatalog = []*core.CatalogRecord{
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "age", DisplayName: "Age", Description: "Customer age in whole years"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "gender", DisplayName: "Gender", Description: "Customer gender identity"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "city", DisplayName: "City", Description: "City of residence"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "occupation", DisplayName: "Occupation", Description: "Customer occupation or job title"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "income_level", DisplayName: "Income Level", Description: "Annual household income bracket"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "education", DisplayName: "Education", Description: "Highest education level attained"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "email", DisplayName: "Email", Description: "Primary email address"},
	{Type: core.RecordTypeProfileAttribute, GroupKey: "users", FieldId: "signup_channel", DisplayName: "Signup Channel", Description: "Marketing channel the customer signed up through"},

	{Type: core.RecordTypeEvent, FieldId: "buy_online", DisplayName: "Buy Online", Description: "Customer completed a purchase in the online store"},
	{Type: core.RecordTypeEvent, FieldId: "buy_offline", DisplayName: "Buy Offline", Description: "Customer completed a purchase in a physical store"},
	{Type: core.RecordTypeEvent, FieldId: "login", DisplayName: "Login", Description: "Customer signed in to their account"},
	{Type: core.RecordTypeEvent, FieldId: "browse_product", DisplayName: "Browse Product", Description: "Customer viewed a product detail page"},
	{Type: core.RecordTypeEvent, FieldId: "add_to_cart", DisplayName: "Add To Cart", Description: "Customer added an item to their shopping cart"},
	{Type: core.RecordTypeEvent, FieldId: "subscribe_newsletter", DisplayName: "Subscribe Newsletter", Description: "Customer subscribed to the marketing newsletter"},

	{Type: core.RecordTypeEventAttribute, GroupKey: "buy_online", FieldId: "purchase_amount", DisplayName: "Purchase Amount", Description: "Total amount paid for the online order"},
	{Type: core.RecordTypeEventAttribute, GroupKey: "buy_online", FieldId: "payment_method", DisplayName: "Payment Method", Description: "Payment method used at checkout"},
	{Type: core.RecordTypeEventAttribute, GroupKey: "buy_online", FieldId: "product_category", DisplayName: "Product Category", Description: "Category of the purchased product"},
	{Type: core.RecordTypeEventAttribute, GroupKey: "buy_offline", FieldId: "store_id", DisplayName: "Store ID", Description: "Identifier of the physical store"},
	{Type: core.RecordTypeEventAttribute, GroupKey: "login", FieldId: "device_type", DisplayName: "Device Type", Description: "Device used to sign in"},
	{Type: core.RecordTypeEventAttribute, GroupKey: "browse_product", FieldId: "dwell_seconds", DisplayName: "Dwell Seconds", Description: "Seconds spent on the product page"},
}

var (
	dbPath      = flag.String("db", "./catalog_db", "path to BadgerDB catalog directory")
	csvFileName = flag.String("src", "", "CSV file of catalog definitions")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	catalog, err := metaquery.OpenCatalog(*dbPath)
	if err != nil {
		panic(err)
	}
	defer catalog.Close()

	pipeline, err := catalog.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	var written int
	if *csvFileName != "" {
		f, err := os.Open(*csvFileName)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		written, err = pipeline.IngestCSV(ctx, f)
		if err != nil {
			panic(err)
		}
	} else {
		written, err = pipeline.IngestRecords(ctx, sampleCatalog)
		if err != nil {
			panic(err)
		}
	}

	fmt.Printf("Ingested %d catalog records\n", written)
}
