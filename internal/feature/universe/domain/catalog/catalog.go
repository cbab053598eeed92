// Package catalog holds the built-in benchmark universe used to seed the symbols table.
package catalog

// Entry is one benchmark with its selectable constituents, in display order.
type Entry struct {
	Name    string
	Symbol  string
	Members []string
}

// Default returns the built-in benchmarks. Callers may modify the result.
func Default() []Entry {
	return []Entry{
		{Name: "Nifty 50", Symbol: "^NSEI", Members: dedupe(nifty50)},
		{Name: "NASDAQ 100", Symbol: "^NDX", Members: dedupe(nasdaq100)},
	}
}

var nifty50 = []string{
	"ADANIPORTS.NS", "ASIANPAINT.NS", "AXISBANK.NS", "BAJAJ-AUTO.NS", "BAJAJFINSV.NS",
	"BAJFINANCE.NS", "BHARTIARTL.NS", "BPCL.NS", "BRITANNIA.NS", "CIPLA.NS",
	"COALINDIA.NS", "DIVISLAB.NS", "DRREDDY.NS", "EICHERMOT.NS", "GRASIM.NS",
	"HCLTECH.NS", "HDFC.NS", "HDFC.NS", "HDFCBANK.NS", "HDFCLIFE.NS", "HEROMOTOCO.NS",
	"HINDALCO.NS", "HINDUNILVR.NS", "ICICIBANK.NS", "INDUSINDBK.NS", "INFY.NS",
	"ITC.NS", "JSWSTEEL.NS", "KOTAKBANK.NS", "LT.NS", "M&M.NS",
	"MARUTI.NS", "NESTLEIND.NS", "NTPC.NS", "ONGC.NS", "POWERGRID.NS",
	"RELIANCE.NS", "SBILIFE.NS", "SBIN.NS", "SUNPHARMA.NS", "TATAMOTORS.NS",
	"TATASTEEL.NS", "TCS.NS", "TECHM.NS", "TITAN.NS", "ULTRACEMCO.NS",
	"UPL.NS", "WIPRO.NS",
}

var nasdaq100 = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B", "UNH", "V",
	"MA", "HD", "DIS", "ADBE", "CMCSA", "NFLX", "INTC", "CSCO", "PFE", "MRK",
	"PEP", "AVGO", "TXN", "QCOM", "ABT", "TMO", "CRM", "ORCL", "COST", "NKE",
	"MCD", "AMGN", "MDT", "HON", "BMY", "C", "BAX", "BA", "GILD", "MS",
	"CVX", "WMT", "WBA", "MCO", "CAT", "DHR", "LMT", "IBM", "UPS", "COP",
	"AMT", "LRCX", "LLY", "CL", "SBUX", "T", "MDLZ", "EOG", "MCK", "SNY",
	"WFC", "FIS", "MO", "CME", "GS", "ADP", "IACI", "BMY", "AON", "KMB",
	"PSA", "ISRG", "MCHP", "HPE", "MU", "LUV", "MSCI", "CSX", "XOM", "TRV",
}

// dedupe keeps the first occurrence of every code.
func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
