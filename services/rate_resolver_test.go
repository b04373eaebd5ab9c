package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrlogistics/models"
)

func addRule(t *testing.T, env *testEnv, rule models.PricingRule) *models.PricingRule {
	t.Helper()
	require.NoError(t, env.rules.Create(context.Background(), &rule))
	return &rule
}

func TestResolverUsesAssignedRule(t *testing.T) {
	env := newTestEnv(t)
	rule := addRule(t, env, models.PricingRule{Name: "acme", Zone: "metro", BaseRate: 100, PerKgRate: 10, MinWeightKG: 5, IsActive: true})
	user := env.addUser(t, models.AppUser{Email: "a@acme.test", FullName: "Acme", PricingRuleID: rule.ID, Role: models.RoleCustomer})

	d := models.ConsignmentDetails{UserID: user.ID, Weight: 2, Zone: models.ZoneROI}
	got := env.resolver.Apply(context.Background(), &d)

	require.NotNil(t, got)
	assert.Equal(t, 150.0, d.BaseRate)
	assert.Equal(t, "Acme", d.Name)
}

func TestResolverFallsBackToZoneDefault(t *testing.T) {
	env := newTestEnv(t)
	inactive := addRule(t, env, models.PricingRule{Name: "old", Zone: "roi", BaseRate: 999, IsActive: false})
	addRule(t, env, models.PricingRule{Name: "roi default", Zone: "roi", BaseRate: 40, PerKgRate: 20, MinWeightKG: 0.5, IsActive: true})
	user := env.addUser(t, models.AppUser{Email: "b@acme.test", FullName: "Bee", PricingRuleID: inactive.ID, Role: models.RoleCustomer})

	d := models.ConsignmentDetails{UserID: user.ID, Name: "Explicit", Weight: 10, Zone: models.ZoneROI}
	env.resolver.Apply(context.Background(), &d)

	assert.Equal(t, 240.0, d.BaseRate)
	assert.Equal(t, "Explicit", d.Name)
}

func TestResolverDefaultsToLocalZone(t *testing.T) {
	env := newTestEnv(t)
	addRule(t, env, models.PricingRule{Name: "local", Zone: "local", BaseRate: 30, PerKgRate: 0, IsActive: true})

	rule, err := env.resolver.Resolve(context.Background(), nil, "")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, "local", rule.Name)
}

func TestResolverKeepsManualRate(t *testing.T) {
	env := newTestEnv(t)
	addRule(t, env, models.PricingRule{Name: "metro", Zone: "metro", BaseRate: 100, IsActive: true})
	user := env.addUser(t, models.AppUser{Email: "c@acme.test", FullName: "Cee", Role: models.RoleCustomer})

	d := models.ConsignmentDetails{UserID: user.ID, BaseRate: 75, Zone: models.ZoneMetro}
	env.resolver.Apply(context.Background(), &d)

	assert.Equal(t, 75.0, d.BaseRate)
}

func TestResolverWithoutRuleLeavesChargesAlone(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.AppUser{Email: "d@acme.test", FullName: "Dee", Role: models.RoleCustomer})

	d := models.ConsignmentDetails{UserID: user.ID, Weight: 4, Zone: models.ZoneEast}
	got := env.resolver.Apply(context.Background(), &d)

	assert.NotNil(t, got)
	assert.Zero(t, d.BaseRate)

	d = models.ConsignmentDetails{UserID: "unknown", Weight: 4}
	assert.Nil(t, env.resolver.Apply(context.Background(), &d))
	assert.Zero(t, d.BaseRate)
}

func TestCreateResolvesRateOnce(t *testing.T) {
	env := newTestEnv(t)
	addRule(t, env, models.PricingRule{Name: "metro", Zone: "metro", BaseRate: 50, PerKgRate: 10, MinWeightKG: 1, IsActive: true})
	user := env.addUser(t, models.AppUser{Email: "e@acme.test", FullName: "Eee", Role: models.RoleCustomer})
	ctx := context.Background()

	d := baseDetails()
	d.UserID = user.ID
	d.BaseRate = 0
	res, err := env.consignmentSvc.Create(ctx, d, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, res.Consignment.BaseRate)
	assert.InDelta(t, 250.0, res.Consignment.Total, 0.01)

	upd, err := env.consignmentSvc.Update(ctx, res.Consignment.ID, models.ConsignmentPatch{Weight: ptr(40.0)}, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, upd.Consignment.BaseRate)
}
