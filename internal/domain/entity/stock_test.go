package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bodega/internal/domain/entity"
)

func TestHealthOf_Umbrales(t *testing.T) {
	d := decimal.NewFromFloat
	cases := []struct {
		qty, min float64
		want     entity.StockHealth
	}{
		{0, 0, entity.HealthCritical},
		{5, 5, entity.HealthCritical},
		{4, 5, entity.HealthCritical},
		{7.5, 5, entity.HealthAttention},
		{6, 5, entity.HealthAttention},
		{7.6, 5, entity.HealthNormal},
		{1, 0, entity.HealthNormal},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, entity.HealthOf(d(c.qty), d(c.min)), "q=%v min=%v", c.qty, c.min)
	}
}

func TestProductLot_CloneNoComparteMovimientos(t *testing.T) {
	lot := &entity.ProductLot{
		Code:      "A1",
		Lot:       "L1",
		Movements: []entity.Movement{{Type: entity.MovementTypeManualEgress}},
		Reception: &entity.ReceptionCheck{Status: entity.ReceptionReceived},
	}
	c := lot.Clone()
	c.Movements[0].Reference = "otro"
	c.Reception.Status = entity.ReceptionNonConforming

	assert.Empty(t, lot.Movements[0].Reference)
	assert.Equal(t, entity.ReceptionReceived, lot.Reception.Status)
	assert.Equal(t, entity.LotKey{Code: "A1", Lot: "L1"}, c.Key())
}

func TestProductLot_CloneNoComparteAtributosExtra(t *testing.T) {
	lot := &entity.ProductLot{
		Code:      "A1",
		Lot:       "L1",
		Extra:     map[string]json.RawMessage{"checklist": json.RawMessage(`{"ok":true}`)},
		Movements: []entity.Movement{{Extra: map[string]json.RawMessage{"ip": json.RawMessage(`"1"`)}}},
	}
	c := lot.Clone()
	c.Extra["checklist"] = json.RawMessage(`null`)
	c.Movements[0].Extra["ip"][1] = '2'

	assert.Equal(t, `{"ok":true}`, string(lot.Extra["checklist"]))
	assert.Equal(t, `"1"`, string(lot.Movements[0].Extra["ip"]))
	assert.Nil(t, (&entity.ProductLot{}).Clone().Extra)
}
