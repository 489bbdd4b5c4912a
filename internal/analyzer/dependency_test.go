package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testlens-hq/testlens/pkg/model"
)

func TestAnalyzeDependencies_UsageCollection(t *testing.T) {
	cls := parseClass(t, `
class OrderService {
  constructor(
    private orderRepo: OrderRepository,
    private paymentService: PaymentService,
  ) {}

  async createOrder(data: OrderData) {
    const order = await this.orderRepo.save(data);
    await this.paymentService.charge(order);
    return order;
  }

  async findOrder(id: string) {
    return this.orderRepo.findOne(id);
  }

  async refund(id: string) {
    const order = await this.orderRepo.findOne(id);
    try {
      await this.paymentService.refund(order);
    } catch (err) {
      console.log(err);
    }
    return order;
  }
}
`)

	deps := analyzeDependencies(cls)
	require.Len(t, deps, 2)

	repo := deps[0]
	assert.Equal(t, "orderRepo", repo.Name)
	assert.Equal(t, "OrderRepository", repo.Type)
	assert.Equal(t, 3, repo.TotalCalls)
	require.Len(t, repo.Usages, 3)
	assert.Equal(t, []string{"save"}, repo.Usages[0].Members)
	assert.Equal(t, []string{"findOne"}, repo.Usages[1].Members)
	// findOne is invoked from two different methods
	assert.Equal(t, []string{"findOne"}, repo.CommonMethods)
	assert.Equal(t, model.MockStub, repo.MockStrategy)

	pay := deps[1]
	assert.Equal(t, "paymentService", pay.Name)
	assert.Equal(t, 2, pay.TotalCalls)
	assert.Empty(t, pay.CommonMethods)

	var refundUsage *model.DependencyUsage
	for i := range pay.Usages {
		if pay.Usages[i].Method == "refund" {
			refundUsage = &pay.Usages[i]
		}
	}
	require.NotNil(t, refundUsage)
	assert.True(t, refundUsage.ErrorHandling)
	// error-handled service interaction selects a spy
	assert.Equal(t, model.MockSpy, pay.MockStrategy)
}

func TestAnalyzeDependencies_ConditionalGuardReference(t *testing.T) {
	cls := parseClass(t, `
class LookupService {
  constructor(private cacheClient: CacheClient) {}

  get(key: string) {
    if (this.cacheClient.isReady()) {
      return this.cacheClient.get(key);
    }
    return null;
  }
}
`)

	deps := analyzeDependencies(cls)
	require.Len(t, deps, 1)
	require.Len(t, deps[0].Usages, 1)
	usage := deps[0].Usages[0]
	assert.True(t, usage.Conditional)
	assert.Equal(t, []string{"isReady", "get"}, usage.Members)
	assert.Equal(t, 2, usage.CallCount)
}

func TestAnalyzeDependencies_UnusedDependency(t *testing.T) {
	cls := parseClass(t, `
class ReportService {
  constructor(private mailer: Mailer) {}

  build() {
    return [];
  }
}
`)

	deps := analyzeDependencies(cls)
	require.Len(t, deps, 1)
	assert.Empty(t, deps[0].Usages)
	assert.Zero(t, deps[0].TotalCalls)
	assert.Equal(t, model.MockStub, deps[0].MockStrategy)
	assert.False(t, deps[0].UsedBy("build"))
}

func TestSelectMockStrategy(t *testing.T) {
	tests := []struct {
		name string
		dep  model.Dependency
		want model.MockStrategy
	}{
		{
			"repository always stubbed",
			model.Dependency{Type: "UserRepository", TotalCalls: 10},
			model.MockStub,
		},
		{
			"guarded service spied",
			model.Dependency{Type: "EmailService", Usages: []model.DependencyUsage{{Conditional: true}}},
			model.MockSpy,
		},
		{
			"error-handled service spied",
			model.Dependency{Type: "EmailService", Usages: []model.DependencyUsage{{ErrorHandling: true}}},
			model.MockSpy,
		},
		{
			"unguarded heavy use faked",
			model.Dependency{Type: "StatsdClient", TotalCalls: 6},
			model.MockFake,
		},
		{
			"unguarded service with heavy use faked",
			model.Dependency{Type: "EmailService", TotalCalls: 6},
			model.MockFake,
		},
		{
			"default stub",
			model.Dependency{Type: "Clock", TotalCalls: 2},
			model.MockStub,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectMockStrategy(&tt.dep))
		})
	}
}
