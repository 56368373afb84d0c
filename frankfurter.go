package tripsplit

import (
	"fmt"
	"log"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tripsplit/date"
	"github.com/shopspring/decimal"
)

// frankfurterURL is the historical FX endpoint of the free frankfurter.dev
// service.
//
//	GET /v1/2025-01-15?base=CNY&symbols=VND
//	{"amount":1.0,"base":"CNY","date":"2025-01-15","rates":{"VND":3620.5}}
//
// The service snaps non-business days to the previous published day, and
// reports the day it actually answered for in the 'date' property.
var frankfurterURL = "https://api.frankfurter.dev/v1"

// fetchRate fetches the exchange rate from 'currency' to 'base' as published
// on or before 'on'. It returns the publication day together with the rate,
// which can be earlier than 'on'.
func fetchRate(client *http.Client, currency, base string, on date.Date) (date.Date, decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/%s?base=%s&symbols=%s", frankfurterURL, on, currency, base)
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("error in wget %s/%s: %w", currency, base, err)
	}

	path := "$.rates." + base
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %s/%s: %q %w", currency, base, path, err)
	}
	rate, ok := jval.(float64)
	if !ok {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %s/%s: %q not a float: %v", currency, base, path, jval)
	}

	jday, err := jsonpath.Get("$.date", jobj)
	if err != nil {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %s/%s: %q %w", currency, base, "$.date", err)
	}
	day, ok := jday.(string)
	if !ok {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %s/%s: date is not a string: %v", currency, base, jday)
	}
	published, err := date.Parse(day)
	if err != nil {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %s/%s: %w", currency, base, err)
	}
	return published, decimal.NewFromFloat(rate), nil
}

// FetchMissingRates fills the rate table with rates for every
// (currency, date) pair the given expenses need and the table cannot answer
// yet. Fetched rates are recorded at their publication day, so the on-or-before
// lookup finds them for the expense date. It returns the number of rates added.
func FetchMissingRates(table *RateTable, expenses []Expense) (int, error) {
	client := daily()
	added := 0
	for _, e := range expenses {
		currency := e.Amount.Currency()
		if currency == table.Base() {
			continue
		}
		if _, ok := table.RateAsOf(currency, e.Date); ok {
			continue
		}
		published, rate, err := fetchRate(client, currency, table.Base(), e.Date)
		if err != nil {
			return added, err
		}
		if published.After(e.Date) {
			return added, fmt.Errorf("rate for %s published on %s, after expense %q date %s", currency, published, e.ID, e.Date)
		}
		log.Printf("fetched %s to %s rate %s as of %s", currency, table.Base(), rate, published)
		if err := table.Add(currency, published, rate); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
