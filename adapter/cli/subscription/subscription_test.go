package subscription

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

func resetFlags() {
	subscribePlan = ""
	subscribeCycle = "MONTHLY"
	previewSubscriptionID = ""
	changePlanSubscriptionID = ""
	changePlanAt = "now"
	cancelSubscriptionID = ""
	cancelImmediate = false
	renewBatchSize = 100
}

func TestSubscribeCmd_NoApp(t *testing.T) {
	resetFlags()
	cli.SetApp(nil)

	var output strings.Builder
	subscribeCmd.SetContext(context.Background())
	subscribeCmd.SetOut(&output)

	err := subscribeCmd.RunE(subscribeCmd, []string{})
	assert.NoError(t, err)
	assert.Contains(t, output.String(), "requires database connection")
}

func TestStatusCmd_NoApp(t *testing.T) {
	resetFlags()
	cli.SetApp(nil)

	var output strings.Builder
	statusCmd.SetContext(context.Background())
	statusCmd.SetOut(&output)

	err := statusCmd.RunE(statusCmd, []string{})
	assert.NoError(t, err)
	assert.Contains(t, output.String(), "requires database connection")
}

func TestRenewCmd_NoApp(t *testing.T) {
	resetFlags()
	cli.SetApp(nil)

	var output strings.Builder
	renewCmd.SetContext(context.Background())
	renewCmd.SetOut(&output)

	err := renewCmd.RunE(renewCmd, []string{})
	assert.NoError(t, err)
	assert.Contains(t, output.String(), "requires database connection")
}

func TestChangePlanCmd_InvalidAt(t *testing.T) {
	resetFlags()
	app := &cli.App{ChangePlanHandler: &commands.ChangePlanHandler{}}
	cli.SetApp(app)
	defer cli.SetApp(nil)

	changePlanAt = "someday"
	changePlanCmd.SetContext(context.Background())

	err := changePlanCmd.RunE(changePlanCmd, []string{"LANDED"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --at value")
}

func TestCancelCmd_InvalidID(t *testing.T) {
	resetFlags()
	app := &cli.App{CancelSubscriptionHandler: &commands.CancelSubscriptionHandler{}}
	cli.SetApp(app)
	defer cli.SetApp(nil)

	cancelSubscriptionID = "not-a-uuid"
	cancelCmd.SetContext(context.Background())

	err := cancelCmd.RunE(cancelCmd, []string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subscription id")
}

func TestEffectiveness(t *testing.T) {
	for input, want := range map[string]string{
		"now":        "IMMEDIATE",
		"immediate":  "IMMEDIATE",
		"next-cycle": "NEXT_CYCLE",
		"renewal":    "NEXT_CYCLE",
	} {
		got, err := effectiveness(input)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := effectiveness("whenever")
	assert.Error(t, err)
}

func TestCmdConfiguration(t *testing.T) {
	assert.Equal(t, "subscription", Cmd.Use)

	subCmds := Cmd.Commands()
	cmdNames := make([]string, len(subCmds))
	for i, cmd := range subCmds {
		cmdNames[i] = cmd.Name()
	}

	assert.Contains(t, cmdNames, "subscribe")
	assert.Contains(t, cmdNames, "status")
	assert.Contains(t, cmdNames, "preview")
	assert.Contains(t, cmdNames, "change-plan")
	assert.Contains(t, cmdNames, "cancel")
	assert.Contains(t, cmdNames, "reinstate")
	assert.Contains(t, cmdNames, "renew")
}

func TestSubscribeCmdFlags(t *testing.T) {
	resetFlags()

	assert.NotNil(t, subscribeCmd.Flags().Lookup("plan"))
	assert.NotNil(t, subscribeCmd.Flags().Lookup("cycle"))
	assert.NotNil(t, changePlanCmd.Flags().Lookup("at"))
	assert.NotNil(t, cancelCmd.Flags().Lookup("now"))
	assert.NotNil(t, renewCmd.Flags().Lookup("batch-size"))
}
