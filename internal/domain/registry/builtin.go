package registry

// GlobalDefaultLocation is the location used when no dataset default applies.
const GlobalDefaultLocation = "US"

// Builtin returns the registry of respiratory-disease datasets the dashboard
// ships with. flusight is the default dataset; its detailed view is the
// overall default view.
func Builtin() *Registry {
	return New(
		Dataset{
			ShortName: "flusight",
			Prefix:    "flusight",
			Views: []View{
				{Key: "detailed", Value: "fludetailed", Label: "Flu - Detailed"},
				{Key: "timeseries", Value: "flutimeseries", Label: "Flu - Time Series"},
				{Key: "peak", Value: "flu_peak", Label: "Flu - Peak Outlook", Special: true},
			},
			DefaultView:      "fludetailed",
			DefaultModel:     "FluSight-ensemble",
			DefaultLocation:  GlobalDefaultLocation,
			HasDateSelector:  true,
			HasModelSelector: true,
		},
		Dataset{
			ShortName: "covid19",
			Prefix:    "covid",
			Views: []View{
				{Key: "detailed", Value: "coviddetailed", Label: "COVID-19 - Detailed"},
				{Key: "timeseries", Value: "covidtimeseries", Label: "COVID-19 - Time Series"},
			},
			DefaultView:      "coviddetailed",
			DefaultModel:     "CovidHub-ensemble",
			DefaultLocation:  GlobalDefaultLocation,
			HasDateSelector:  true,
			HasModelSelector: true,
		},
		Dataset{
			ShortName: "rsv",
			Prefix:    "rsv",
			Views: []View{
				{Key: "detailed", Value: "rsvdetailed", Label: "RSV - Detailed"},
			},
			DefaultView:      "rsvdetailed",
			DefaultModel:     "hub-ensemble",
			DefaultLocation:  GlobalDefaultLocation,
			HasDateSelector:  true,
			HasModelSelector: true,
		},
		Dataset{
			ShortName: "flumetro",
			Prefix:    "flumetro",
			Views: []View{
				{Key: "metro", Value: "flumetro", Label: "Flu - Metro Forecasts"},
			},
			DefaultView:      "flumetro",
			DefaultModel:     "Metrocast-ensemble",
			DefaultLocation:  "NYC",
			HasDateSelector:  true,
			HasModelSelector: true,
			Metro:            true,
		},
		Dataset{
			ShortName: "nhsn",
			Prefix:    "nhsn",
			Views: []View{
				{Key: "all", Value: "nhsnall", Label: "NHSN - All Columns"},
				{Key: "raw", Value: "nhsnraw", Label: "NHSN - Raw", Special: true},
			},
			DefaultView:      "nhsnall",
			DefaultLocation:  GlobalDefaultLocation,
			HasDateSelector:  false,
			HasModelSelector: false,
			ExtraParams:      []string{"nhsn_columns"},
		},
	)
}
