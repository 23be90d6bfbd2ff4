package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// newStubServer serves a canned assistant reply for every chat completion and
// records the last request for assertions.
func newStubServer(t *testing.T, content string) (*Client, *openai.ChatCompletionRequest) {
	t.Helper()
	var last openai.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&last); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := openai.ChatCompletionResponse{
			ID:     "cmpl-test",
			Object: "chat.completion",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return NewWithBaseURL("sk-test", "", srv.URL), &last
}

func TestParseFood(t *testing.T) {
	reply := `{"foods":[{"name":"scrambled eggs","quantity":2,"unit":"large","meal_type":"breakfast"}],` +
		`"confidence":"high","meal_type":"breakfast","clarifications_needed":[]}`
	c, last := newStubServer(t, reply)

	out, err := c.ParseFood(context.Background(), "I had 2 eggs", "time of day: morning")
	if err != nil {
		t.Fatalf("ParseFood: %v", err)
	}
	if len(out.Foods) != 1 || out.Foods[0].Name != "scrambled eggs" || out.Foods[0].Quantity != 2 {
		t.Fatalf("foods = %+v", out.Foods)
	}
	if out.Confidence != "high" || out.MealType != "breakfast" {
		t.Fatalf("result = %+v", out)
	}

	// Request shape: default model, JSON response format, context appended.
	if last.Model != DefaultModel {
		t.Errorf("model = %q; want %q", last.Model, DefaultModel)
	}
	if last.ResponseFormat == nil || last.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response format not requested as JSON object: %+v", last.ResponseFormat)
	}
	if len(last.Messages) != 2 {
		t.Fatalf("messages = %d; want system+user", len(last.Messages))
	}
	if !strings.Contains(last.Messages[1].Content, "time of day: morning") {
		t.Errorf("extra context missing from user message: %q", last.Messages[1].Content)
	}
}

func TestParseFood_FencedReply(t *testing.T) {
	reply := "```json\n{\"foods\":[{\"name\":\"apple\",\"quantity\":1,\"unit\":\"medium\"}],\"confidence\":\"high\"}\n```"
	c, _ := newStubServer(t, reply)

	out, err := c.ParseFood(context.Background(), "an apple", "")
	if err != nil {
		t.Fatalf("fenced reply should still decode: %v", err)
	}
	if len(out.Foods) != 1 || out.Foods[0].Name != "apple" {
		t.Fatalf("foods = %+v", out.Foods)
	}
}

func TestParseFood_UndecodableReply(t *testing.T) {
	c, _ := newStubServer(t, "sorry, I can't do JSON today")
	if _, err := c.ParseFood(context.Background(), "an apple", ""); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestClassifyIntent(t *testing.T) {
	c, last := newStubServer(t, `{"intent":"log_food","confidence":"high","entities":{"food":"pizza"}}`)

	out, err := c.ClassifyIntent(context.Background(), "pizza for me", "Recent conversation:\nuser: hi\n")
	if err != nil {
		t.Fatalf("ClassifyIntent: %v", err)
	}
	if out.Intent != "log_food" || out.Entities["food"] != "pizza" {
		t.Fatalf("result = %+v", out)
	}
	if !strings.Contains(last.Messages[1].Content, "Recent conversation:") {
		t.Errorf("history snapshot missing from user message: %q", last.Messages[1].Content)
	}
}

func TestClassifyIntent_NoHistory(t *testing.T) {
	c, last := newStubServer(t, `{"intent":"other","confidence":"low"}`)

	if _, err := c.ClassifyIntent(context.Background(), "zzz", ""); err != nil {
		t.Fatalf("ClassifyIntent: %v", err)
	}
	if strings.Contains(last.Messages[1].Content, "Recent conversation") {
		t.Errorf("empty history should add nothing: %q", last.Messages[1].Content)
	}
}

func TestEstimateNutrition(t *testing.T) {
	c, _ := newStubServer(t, `{"calories":250,"protein":10,"carbs":30,"fat":9}`)

	out, err := c.EstimateNutrition(context.Background(), "homemade granola", 1, "serving")
	if err != nil {
		t.Fatalf("EstimateNutrition: %v", err)
	}
	if out.Calories != 250 || out.Protein != 10 {
		t.Fatalf("estimate = %+v", out)
	}
}

func TestEstimateNutrition_Unknown(t *testing.T) {
	cases := []struct {
		name, reply string
	}{
		{"unknown flag", `{"calories":0,"protein":0,"carbs":0,"fat":0,"unknown":true}`},
		{"zero calories", `{"calories":0,"protein":1,"carbs":1,"fat":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newStubServer(t, tc.reply)
			_, err := c.EstimateNutrition(context.Background(), "mystery goo", 1, "serving")
			if !errors.Is(err, ErrUnknownFood) {
				t.Fatalf("err = %v; want ErrUnknownFood", err)
			}
		})
	}
}

func TestExtractOnboarding(t *testing.T) {
	c, _ := newStubServer(t, `{"age":30,"gender":"male","weight_kg":75,"height_cm":175,`+
		`"activity_level":"moderately_active","goal":"lose_weight"}`)

	out, err := c.ExtractOnboarding(context.Background(), "I'm 30, male, 75kg, 175cm, moderately active, want to lose weight")
	if err != nil {
		t.Fatalf("ExtractOnboarding: %v", err)
	}
	if !out.Complete() {
		t.Fatalf("profile should be complete: %+v", out)
	}
	if *out.Age != 30 || *out.Goal != "lose_weight" {
		t.Fatalf("profile = %+v", out)
	}
}

func TestExtractOnboarding_PartialProfile(t *testing.T) {
	c, _ := newStubServer(t, `{"age":30,"gender":null,"weight_kg":null,"height_cm":null,"activity_level":null,"goal":null}`)

	out, err := c.ExtractOnboarding(context.Background(), "I'm 30")
	if err != nil {
		t.Fatalf("ExtractOnboarding: %v", err)
	}
	if out.Complete() {
		t.Fatalf("partial profile reported complete: %+v", out)
	}
	if out.Age == nil || *out.Age != 30 {
		t.Fatalf("age not extracted: %+v", out)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := stripFences(c.in); got != c.want {
			t.Errorf("stripFences(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestNew_DefaultsModel(t *testing.T) {
	c := New("sk-test", "")
	if c.model != DefaultModel {
		t.Fatalf("model = %q; want %q", c.model, DefaultModel)
	}
	c2 := New("sk-test", "gpt-4o")
	if c2.model != "gpt-4o" {
		t.Fatalf("model = %q", c2.model)
	}
}
