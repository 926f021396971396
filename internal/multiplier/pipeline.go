package multiplier

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
	"github.com/osse101/BrandishIdle_Go/internal/utils"
)

// Pipeline composes every income modifier of one owner into a coin and a gem multiplier.
// The trait multiplier is not applied here; it is already part of the cached base rate.
type Pipeline struct {
	source  repository.Multipliers
	seasons *SeasonCache
	tables  *config.ProductionTables
	roller  Roller
}

// NewPipeline creates a new multiplier pipeline
func NewPipeline(source repository.Multipliers, seasons *SeasonCache, tables *config.ProductionTables, roller Roller) *Pipeline {
	if roller == nil {
		roller = RandomRoller
	}
	if seasons == nil {
		seasons = NewSeasonCache(source, 1, 0)
	}
	return &Pipeline{
		source:  source,
		seasons: seasons,
		tables:  tables,
		roller:  roller,
	}
}

// factors is the per-currency product of one pipeline stage
type factors struct {
	coin float64
	gem  float64
}

var neutral = factors{coin: 1, gem: 1}

func (f factors) times(o factors) factors {
	return factors{coin: f.coin * o.coin, gem: f.gem * o.gem}
}

// Evaluate computes the multipliers for one tick of the owner's production at the
// given instant. A failing source contributes a neutral factor and is listed in
// Degraded; Evaluate itself never fails.
func (p *Pipeline) Evaluate(ctx context.Context, ownerID string, at time.Time) domain.Multipliers {
	var degraded []string
	degrade := func(source string, err error) {
		logger.FromContext(ctx).Warn(LogMsgSourceUnavailable,
			"source", source, "owner_id", ownerID,
			"error", fmt.Errorf("%w: %w", domain.ErrMultiplierSourceUnavailable, err))
		metrics.MultiplierSourceErrors.WithLabelValues(source).Inc()
		degraded = append(degraded, source)
	}

	boosts := neutral
	if active, err := p.source.GetActiveBoosts(ctx, ownerID, at); err != nil {
		degrade(SourceBoosts, err)
	} else {
		boosts = boostFactors(active, at)
	}

	levels, err := p.source.GetBuildingLevels(ctx, ownerID)
	if err != nil {
		degrade(SourceBuildings, err)
		levels = nil
	}
	buildings := p.buildingFactors(levels)

	season := neutral
	if active, err := p.seasons.Active(ctx, at); err != nil {
		degrade(SourceSeasons, err)
	} else {
		season = p.seasonFactors(active, levels[domain.BuildingEventAmplifier])
	}

	critical := p.rollCritical(levels[domain.BuildingLuckyShrine])
	crit := neutral
	if critical {
		crit = factors{coin: p.tables.Critical.Multiplier, gem: p.tables.Critical.Multiplier}
		logger.FromContext(ctx).Debug(LogMsgCriticalHit, "owner_id", ownerID)
	}

	prestige := neutral
	if level, err := p.source.GetPrestigeLevel(ctx, ownerID); err != nil {
		degrade(SourcePrestige, err)
	} else {
		m := p.tables.PrestigeMultiplier(level)
		prestige = factors{coin: m, gem: m}
	}

	total := boosts.times(buildings).times(season).times(crit).times(prestige)
	return domain.Multipliers{
		Coin:     total.coin,
		Gem:      total.gem,
		Critical: critical,
		Degraded: degraded,
	}
}

// boostFactors multiplies every boost active at the instant into the currency it targets
func boostFactors(boosts []domain.ActiveBoost, at time.Time) factors {
	out := neutral
	for _, b := range boosts {
		if !b.IsActive(at) || b.Multiplier <= 0 {
			continue
		}
		if b.Category.Applies(domain.CurrencyCoins) {
			out.coin *= b.Multiplier
		}
		if b.Category.Applies(domain.CurrencyGems) {
			out.gem *= b.Multiplier
		}
	}
	return out
}

// buildingFactors returns the income curve of the mint for coins and the gem mine for gems
func (p *Pipeline) buildingFactors(levels map[domain.BuildingKind]int) factors {
	return factors{
		coin: p.buildingCurve(domain.BuildingMint, levels[domain.BuildingMint]),
		gem:  p.buildingCurve(domain.BuildingGemMine, levels[domain.BuildingGemMine]),
	}
}

// buildingCurve is 1 + levelFactor × level, with the level capped at the kind's maximum
func (p *Pipeline) buildingCurve(kind domain.BuildingKind, level int) float64 {
	curve, ok := p.tables.Buildings[kind]
	if !ok {
		return 1
	}
	return 1 + curve.LevelFactor*float64(p.clampLevel(kind, level))
}

// seasonFactors multiplies the effects of all active seasons. The event amplifier
// scales each season's deviation from neutral, so it strengthens bonuses and penalties alike.
func (p *Pipeline) seasonFactors(seasons []domain.SeasonState, amplifierLevel int) factors {
	amp := 1.0
	if curve, ok := p.tables.Buildings[domain.BuildingEventAmplifier]; ok {
		amp += curve.LevelFactor * float64(p.clampLevel(domain.BuildingEventAmplifier, amplifierLevel))
	}

	out := neutral
	for _, s := range seasons {
		effect, ok := p.tables.Seasons[s.Type]
		if !ok {
			continue
		}
		out.coin *= amplify(effect.Coins, amp)
		out.gem *= amplify(effect.Gems, amp)
	}
	return out
}

func amplify(m, amp float64) float64 {
	v := 1 + (m-1)*amp
	if v < 0 {
		return 0
	}
	return v
}

// CriticalChance returns min(chancePerLevel × level, cap)
func (p *Pipeline) CriticalChance(shrineLevel int) float64 {
	level := p.clampLevel(domain.BuildingLuckyShrine, shrineLevel)
	return min(p.tables.Critical.ChancePerLevel*float64(level), p.tables.Critical.ChanceCap)
}

func (p *Pipeline) rollCritical(shrineLevel int) bool {
	chance := p.CriticalChance(shrineLevel)
	if chance <= 0 {
		return false
	}
	return p.roller.Roll() < chance
}

func (p *Pipeline) clampLevel(kind domain.BuildingKind, level int) int {
	maxLevel := level
	if curve, ok := p.tables.Buildings[kind]; ok {
		maxLevel = curve.MaxLevel
	}
	return utils.Clamp(level, 0, maxLevel)
}
