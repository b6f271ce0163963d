// Package sdk provides a Go client for the proxi HTTP API.
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//
//	page, _ := client.SearchVenues(ctx, sdk.SearchParams{
//	    Lat:      ptr(37.498),
//	    Lng:      ptr(127.028),
//	    RadiusKm: 3,
//	    Category: "dance",
//	})
//
//	venue, _ := client.UpsertVenue(ctx, sdk.Record{
//	    Lat:  ptr(37.499),
//	    Lng:  ptr(127.029),
//	    Tags: map[string]string{"category": "dance"},
//	    Text: []string{"Flow Dance Studio"},
//	})
//
// Errors from the API are returned as *APIError; use errors.As to
// inspect the status and code.
package sdk
