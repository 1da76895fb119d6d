// Package houses looks up Tibia houses and guildhalls currently up for
// auction via the TibiaData v4 API.
package houses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.tibiadata.com/v4"

type Client struct {
	// BaseURL without trailing slash; override in tests.
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// House is one entry of the TibiaData house or guildhall list.
type House struct {
	Name      string `json:"name"`
	HouseID   int    `json:"house_id"`
	Size      int    `json:"size"`
	Rent      int    `json:"rent"`
	Rented    bool   `json:"rented"`
	Auctioned bool   `json:"auctioned"`
	Auction   struct {
		CurrentBid int    `json:"current_bid"`
		TimeLeft   string `json:"time_left"`
		Finished   bool   `json:"finished"`
	} `json:"auction"`
}

type apiResponse struct {
	Houses struct {
		World         string  `json:"world"`
		Town          string  `json:"town"`
		HouseList     []House `json:"house_list"`
		GuildhallList []House `json:"guildhall_list"`
	} `json:"houses"`
	Information struct {
		Status struct {
			HTTPCode int    `json:"http_code"`
			Error    int    `json:"error"`
			Message  string `json:"message"`
		} `json:"status"`
	} `json:"information"`
}

// Result lists only the auctioned entries for a world/town pair, in the shape
// forwarded to the agent loop and API clients.
type Result struct {
	World               string  `json:"world"`
	Town                string  `json:"town"`
	AuctionedHouses     []House `json:"auctioned_houses"`
	AuctionedGuildhalls []House `json:"auctioned_guildhalls"`
	TotalAuctions       int     `json:"total_auctions"`
	Success             bool    `json:"success"`
}

// ForAuction fetches the house listing for world/town and keeps only entries
// currently being auctioned.
func (c *Client) ForAuction(ctx context.Context, world, town string) (*Result, error) {
	endpoint := fmt.Sprintf("%s/houses/%s/%s", c.BaseURL, url.PathEscape(world), url.PathEscape(town))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "tibia-agent/1.0 (+https://github.com/ekzore/tibia-agent)")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching houses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tibiadata returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding houses response: %w", err)
	}
	if body.Information.Status.Error != 0 {
		return nil, fmt.Errorf("tibiadata API error: %s", body.Information.Status.Message)
	}

	res := &Result{World: world, Town: town, Success: true}
	for _, h := range body.Houses.HouseList {
		if h.Auctioned {
			res.AuctionedHouses = append(res.AuctionedHouses, h)
		}
	}
	for _, h := range body.Houses.GuildhallList {
		if h.Auctioned {
			res.AuctionedGuildhalls = append(res.AuctionedGuildhalls, h)
		}
	}
	res.TotalAuctions = len(res.AuctionedHouses) + len(res.AuctionedGuildhalls)
	return res, nil
}
