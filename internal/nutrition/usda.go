// Package nutrition resolves parsed food items into nutrient values.
//
// Resolution is a three-tier chain: the USDA FoodData Central database first,
// an AI estimate when the database has no match, and a synthesized
// zero-nutrient record when both fail. Every resolved item carries a
// provenance tag so downstream formatting can tell the user where a number
// came from.
package nutrition

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultBaseURL is the public FoodData Central API root.
const DefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

// searchCacheTTL bounds staleness of cached search results. Nutrition facts
// change rarely, so a long TTL is safe.
const searchCacheTTL = 24 * time.Hour

// Food is one database food with nutrient values per 100 g.
type Food struct {
	FDCID       int
	Description string
	DataType    string

	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Sugar    float64
}

// USDA nutrient numbers; the name fallbacks cover records where the API
// omits the id.
const (
	nutrientEnergy  = 1008
	nutrientProtein = 1003
	nutrientCarbs   = 1005
	nutrientFat     = 1004
	nutrientFiber   = 1079
	nutrientSugar   = 2000
)

type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

type searchFood struct {
	FdcID         int            `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	FoodNutrients []foodNutrient `json:"foodNutrients"`
}

type foodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// USDAClient searches FoodData Central, caching results in-process.
type USDAClient struct {
	http   *resty.Client
	apiKey string
	cache  *gocache.Cache
}

// NewUSDAClient builds a client against baseURL (DefaultBaseURL when empty).
// The API works without a key at a much lower quota, so an empty key is
// allowed.
func NewUSDAClient(baseURL, apiKey string) *USDAClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &USDAClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
		apiKey: apiKey,
		cache:  gocache.New(searchCacheTTL, time.Hour),
	}
}

// Search queries the database for foods matching query, most relevant first.
// Foods without calorie data are dropped. Results are cached for 24 hours
// keyed by the normalized query.
func (c *USDAClient) Search(ctx context.Context, query string, pageSize int) ([]Food, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	key := "search:" + strings.ToLower(strings.TrimSpace(query)) + ":" + strconv.Itoa(pageSize)
	if v, ok := c.cache.Get(key); ok {
		return v.([]Food), nil
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("pageSize", strconv.Itoa(pageSize)).
		SetQueryParamsFromValues(map[string][]string{
			"dataType": {"Survey (FNDDS)", "Foundation", "SR Legacy"},
		}).
		SetResult(&searchResponse{})
	if c.apiKey != "" {
		req.SetQueryParam("api_key", c.apiKey)
	}

	resp, err := req.Get("/foods/search")
	if err != nil {
		return nil, fmt.Errorf("nutrition: food search %q: %w", query, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nutrition: food search %q: status %s", query, resp.Status())
	}

	sr := resp.Result().(*searchResponse)
	foods := make([]Food, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		if food, ok := parseFood(f); ok {
			foods = append(foods, food)
		}
	}

	c.cache.Set(key, foods, gocache.DefaultExpiration)
	return foods, nil
}

// parseFood maps a raw search hit to a Food. Hits without calorie data are
// rejected; a food we cannot count calories for is useless here.
func parseFood(f searchFood) (Food, bool) {
	food := Food{
		FDCID:       f.FdcID,
		Description: f.Description,
		DataType:    f.DataType,
	}
	hasCalories := false
	for _, n := range f.FoodNutrients {
		name := strings.ToLower(n.NutrientName)
		unit := strings.ToLower(n.UnitName)
		switch {
		case n.NutrientID == nutrientEnergy || (name == "energy" && unit == "kcal"):
			food.Calories = n.Value
			hasCalories = true
		case n.NutrientID == nutrientProtein || name == "protein":
			food.Protein = n.Value
		case n.NutrientID == nutrientCarbs || strings.Contains(name, "carbohydrate"):
			food.Carbs = n.Value
		case n.NutrientID == nutrientFat || strings.Contains(name, "total lipid"):
			food.Fat = n.Value
		case n.NutrientID == nutrientFiber || strings.Contains(name, "fiber"):
			food.Fiber = n.Value
		case n.NutrientID == nutrientSugar || strings.Contains(name, "sugars"):
			food.Sugar = n.Value
		}
	}
	return food, hasCalories
}
