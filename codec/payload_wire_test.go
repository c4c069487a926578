package codec

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"cosmossdk.io/math"

	"github.com/cucumber/godog"

	hyperlane "github.com/xian-network/hyperlane-xian"
)

// wireTestContext keeps state through Gherkin steps for a single scenario.
type wireTestContext struct {
	encoded  string
	parsed   TransferPayload
	parseErr error
}

// theFollowingPayloadIsEncoded implements the Gherkin step:
//
//	When the following transfer payload is encoded:
//	  | field | value |
//	  ...
func (c *wireTestContext) theFollowingPayloadIsEncoded(table *godog.Table) error {
	p, err := payloadFromTable(table)
	if err != nil {
		return err
	}
	c.encoded = p.Encode()
	return nil
}

// theWireStringShouldBe implements: Then the wire string should be "<wire>"
func (c *wireTestContext) theWireStringShouldBe(expected string) error {
	if c.encoded == "" {
		return fmt.Errorf("no payload has been encoded in this scenario")
	}
	if c.encoded != expected {
		return fmt.Errorf("wire string mismatch.\nGot:  %s\nWant: %s", c.encoded, expected)
	}
	return nil
}

// theWireStringIsParsed implements: When the wire string "<wire>" is parsed
func (c *wireTestContext) theWireStringIsParsed(wire string) error {
	c.parsed, c.parseErr = ParseTransferPayload(wire)
	return nil
}

// thePayloadFieldsShouldBe implements:
//
//	Then the payload fields should be:
//	  | field | value |
//	  ...
func (c *wireTestContext) thePayloadFieldsShouldBe(table *godog.Table) error {
	if c.parseErr != nil {
		return fmt.Errorf("parsing failed unexpectedly: %w", c.parseErr)
	}
	want, err := payloadFromTable(table)
	if err != nil {
		return err
	}
	if c.parsed.Sender != want.Sender ||
		c.parsed.Recipient != want.Recipient ||
		!c.parsed.Amount.Equal(want.Amount) ||
		c.parsed.Origin != want.Origin {
		return fmt.Errorf("payload mismatch.\nGot:  %+v\nWant: %+v", c.parsed, want)
	}
	return nil
}

// parsingShouldFailWith implements: Then parsing should fail with "<message>"
func (c *wireTestContext) parsingShouldFailWith(message string) error {
	if c.parseErr == nil {
		return fmt.Errorf("expected parse error %q, got none (payload %+v)", message, c.parsed)
	}
	if !strings.Contains(c.parseErr.Error(), message) {
		return fmt.Errorf("error mismatch.\nGot:  %s\nWant substring: %s", c.parseErr, message)
	}
	return nil
}

func payloadFromTable(table *godog.Table) (TransferPayload, error) {
	if table == nil || len(table.Rows) < 2 {
		return TransferPayload{}, fmt.Errorf("expected header and at least one data row in table")
	}

	var p TransferPayload
	p.Amount = math.ZeroInt()
	for i, row := range table.Rows {
		if i == 0 {
			// header: field | value
			continue
		}
		if len(row.Cells) < 2 {
			return TransferPayload{}, fmt.Errorf("row %d must have at least 2 cells (field, value)", i)
		}
		name, value := row.Cells[0].Value, row.Cells[1].Value
		switch name {
		case "sender":
			p.Sender = hyperlane.Account(value)
		case "recipient":
			p.Recipient = hyperlane.Account(value)
		case "amount":
			amount, ok := math.NewIntFromString(value)
			if !ok {
				return TransferPayload{}, fmt.Errorf("amount: %q is not a decimal integer", value)
			}
			p.Amount = amount
		case "origin_domain":
			domain, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return TransferPayload{}, fmt.Errorf("origin_domain: %w", err)
			}
			p.Origin = hyperlane.Domain(domain)
		default:
			return TransferPayload{}, fmt.Errorf("unknown payload field %q", name)
		}
	}
	return p, nil
}

// InitializeScenario wires the Gherkin steps to the step implementations.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &wireTestContext{}

	ctx.Step(`^the following transfer payload is encoded:$`, state.theFollowingPayloadIsEncoded)
	ctx.Step(`^the wire string should be "([^"]*)"$`, state.theWireStringShouldBe)
	ctx.Step(`^the wire string "([^"]*)" is parsed$`, state.theWireStringIsParsed)
	ctx.Step(`^the payload fields should be:$`, state.thePayloadFieldsShouldBe)
	ctx.Step(`^parsing should fail with "([^"]*)"$`, state.parsingShouldFailWith)
}

// TestMain integrates godog with `go test` to run the gherkin/payload/wire.feature feature file
func TestMain(m *testing.M) {
	status := godog.TestSuite{
		Name:                 "payload-wire-feature",
		ScenarioInitializer:  InitializeScenario,
		TestSuiteInitializer: nil,
		Options: &godog.Options{
			Format: "pretty",
			Paths:  []string{"../gherkin/payload/wire.feature"},
		},
	}.Run()

	if st := m.Run(); st > status {
		status = st
	}
	os.Exit(status)
}
