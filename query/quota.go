// Copyright 2025 Luminai Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"context"
	"time"

	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
)

// Monthly prompt budgets per plan. ExtraPrompts on the identity are added on
// top of the plan budget.
const (
	FreebieMonthlyPrompts = 20
	PremiumMonthlyPrompts = 50

	PlanFreebie = "freebie"
	PlanPremium = "premium"

	// RoleAdmin bypasses quota checks entirely.
	RoleAdmin = "admin"
)

// Gate decides whether a caller may spend a prompt and records spent ones.
type Gate interface {
	// Allow reports whether the identity has prompt budget left this month.
	Allow(ctx context.Context, identity core.Identity) error

	// Record counts one spent prompt against the identity.
	Record(ctx context.Context, identity core.Identity) error
}

// PlanGate enforces monthly prompt budgets by plan type, backed by a usage
// repository. The quota dimension is PlanType; Role only grants the admin
// bypass. Unknown plans get the freebie budget.
type PlanGate struct {
	usage storage.UsageRepository
	now   func() time.Time
}

var _ Gate = (*PlanGate)(nil)

// NewPlanGate creates a PlanGate over the given usage repository.
func NewPlanGate(usage storage.UsageRepository) *PlanGate {
	return &PlanGate{
		usage: usage,
		now:   time.Now,
	}
}

// Allow reports whether the identity has prompt budget left this month.
func (g *PlanGate) Allow(ctx context.Context, identity core.Identity) error {
	if identity.Role == RoleAdmin {
		return nil
	}

	spent, err := g.usage.GetPrompts(ctx, identity.Subject, g.now())
	if err != nil {
		return err
	}
	if spent >= planBudget(identity) {
		return ErrQuotaExceeded
	}
	return nil
}

// Record counts one spent prompt. Admin prompts are not counted.
func (g *PlanGate) Record(ctx context.Context, identity core.Identity) error {
	if identity.Role == RoleAdmin {
		return nil
	}
	_, err := g.usage.IncrementPrompts(ctx, identity.Subject, g.now())
	return err
}

// planBudget returns the identity's total monthly budget.
func planBudget(identity core.Identity) int {
	budget := FreebieMonthlyPrompts
	if identity.PlanType == PlanPremium {
		budget = PremiumMonthlyPrompts
	}
	if identity.ExtraPrompts > 0 {
		budget += identity.ExtraPrompts
	}
	return budget
}
