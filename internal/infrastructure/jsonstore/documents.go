package jsonstore

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega/internal/domain/entity"
)

// timestampLayout formato de fecha-hora usado en el archivo de productos y en auditoría.
const timestampLayout = "2006-01-02 15:04:05"

// lotDocument forma persistida de un lote. Las claves coinciden con el archivo histórico
// data/productos.json, por eso están en español. Las claves que no figuran aquí, y los
// valores que no se pudieron interpretar, viajan en extra y se reescriben tal cual.
type lotDocument struct {
	Codigo           string              `json:"codigo"`
	Descripcion      string              `json:"descripcion"`
	Unidad           string              `json:"unidad"`
	Cantidad         json.Number         `json:"cantidad"`
	Marca            string              `json:"marca"`
	FechaElaboracion string              `json:"fecha_elaboracion"`
	FechaVencimiento string              `json:"fecha_vencimiento"`
	Ubicacion        string              `json:"ubicacion"`
	Lote             string              `json:"lote"`
	StockMinimo      json.Number         `json:"stock_minimo"`
	Proveedor        string              `json:"proveedor"`
	GuiaDespacho     string              `json:"guia_despacho,omitempty"`
	FechaIngreso     string              `json:"fecha_ingreso,omitempty"`
	UsuarioIngreso   string              `json:"usuario_ingreso,omitempty"`
	Estado           string              `json:"estado,omitempty"`
	Observaciones    string              `json:"observaciones,omitempty"`
	Peligrosidad     string              `json:"peligrosidad,omitempty"`
	Temperatura      string              `json:"temperatura,omitempty"`
	Movimientos      *[]movementDocument `json:"movimientos,omitempty"`

	EstadoRecepcion        string `json:"estado_recepcion,omitempty"`
	ObservacionesRecepcion string `json:"observaciones_recepcion,omitempty"`
	FechaRecepcion         string `json:"fecha_recepcion,omitempty"`
	UsuarioRecepcion       string `json:"usuario_recepcion,omitempty"`

	raw   json.RawMessage
	extra map[string]json.RawMessage
}

func (d *lotDocument) UnmarshalJSON(b []byte) error {
	type plain lotDocument
	if err := json.Unmarshal(b, (*plain)(d)); err != nil {
		return err
	}
	d.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (d lotDocument) MarshalJSON() ([]byte, error) {
	type plain lotDocument
	return marshalWithExtra(plain(d), d.extra)
}

type movementDocument struct {
	ID       string      `json:"id,omitempty"`
	Tipo     string      `json:"tipo"`
	Fecha    string      `json:"fecha,omitempty"`
	Cantidad json.Number `json:"cantidad"`
	Usuario  string      `json:"usuario"`
	Pedido   string      `json:"pedido,omitempty"`
	Motivo   string      `json:"motivo,omitempty"`

	raw   json.RawMessage
	extra map[string]json.RawMessage
}

func (m *movementDocument) UnmarshalJSON(b []byte) error {
	type plain movementDocument
	if err := json.Unmarshal(b, (*plain)(m)); err != nil {
		return err
	}
	m.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (m movementDocument) MarshalJSON() ([]byte, error) {
	type plain movementDocument
	return marshalWithExtra(plain(m), m.extra)
}

// toEntity aplica los valores por defecto una sola vez, en el borde de lectura:
// cantidades y umbrales ausentes valen 0, textos ausentes quedan vacíos.
func (d *lotDocument) toEntity() *entity.ProductLot {
	lot := &entity.ProductLot{
		Code:            d.Codigo,
		Description:     d.Descripcion,
		Unit:            d.Unidad,
		Brand:           d.Marca,
		Supplier:        d.Proveedor,
		Quantity:        parseNumber(d.Cantidad),
		Lot:             d.Lote,
		Location:        d.Ubicacion,
		ManufactureDate: d.FechaElaboracion,
		ExpiryDate:      d.FechaVencimiento,
		MinimumStock:    parseNumber(d.StockMinimo),
		Receipt: entity.ReceiptInfo{
			DispatchNote: d.GuiaDespacho,
			ReceivedBy:   d.UsuarioIngreso,
			ReceivedAt:   parseTimestamp(d.FechaIngreso),
			Status:       d.Estado,
			Observations: d.Observaciones,
			Hazard:       d.Peligrosidad,
			Temperature:  d.Temperatura,
		},
	}
	if lot.Unit == "" {
		lot.Unit = entity.UnitPiece
	}
	if d.Movimientos != nil {
		lot.Movements = make([]entity.Movement, 0, len(*d.Movimientos))
		for _, m := range *d.Movimientos {
			lot.Movements = append(lot.Movements, m.toEntity())
		}
	}
	if d.EstadoRecepcion != "" || d.FechaRecepcion != "" {
		lot.Reception = &entity.ReceptionCheck{
			Status:       d.EstadoRecepcion,
			Observations: d.ObservacionesRecepcion,
			CheckedAt:    parseTimestamp(d.FechaRecepcion),
			CheckedBy:    d.UsuarioRecepcion,
		}
	}
	lot.Extra = leftovers(d.raw, fromEntity(lot))
	return lot
}

func (m movementDocument) toEntity() entity.Movement {
	ref := m.Motivo
	if m.Tipo == entity.MovementTypeOrderExit || (ref == "" && m.Pedido != "") {
		ref = m.Pedido
	}
	mov := entity.Movement{
		ID:        m.ID,
		Type:      m.Tipo,
		Timestamp: parseTimestamp(m.Fecha),
		Quantity:  parseNumber(m.Cantidad),
		User:      m.Usuario,
		Reference: ref,
	}
	mov.Extra = leftovers(m.raw, fromMovement(mov))
	return mov
}

func fromEntity(p *entity.ProductLot) lotDocument {
	d := lotDocument{
		Codigo:           p.Code,
		Descripcion:      p.Description,
		Unidad:           p.Unit,
		Cantidad:         formatNumber(p.Quantity),
		Marca:            p.Brand,
		FechaElaboracion: p.ManufactureDate,
		FechaVencimiento: p.ExpiryDate,
		Ubicacion:        p.Location,
		Lote:             p.Lot,
		StockMinimo:      formatNumber(p.MinimumStock),
		Proveedor:        p.Supplier,
		GuiaDespacho:     p.Receipt.DispatchNote,
		FechaIngreso:     formatTimestamp(p.Receipt.ReceivedAt),
		UsuarioIngreso:   p.Receipt.ReceivedBy,
		Estado:           p.Receipt.Status,
		Observaciones:    p.Receipt.Observations,
		Peligrosidad:     p.Receipt.Hazard,
		Temperatura:      p.Receipt.Temperature,
	}
	if p.Movements != nil {
		movs := make([]movementDocument, 0, len(p.Movements))
		for _, m := range p.Movements {
			movs = append(movs, fromMovement(m))
		}
		d.Movimientos = &movs
	}
	if r := p.Reception; r != nil {
		d.EstadoRecepcion = r.Status
		d.ObservacionesRecepcion = r.Observations
		d.FechaRecepcion = formatTimestamp(r.CheckedAt)
		d.UsuarioRecepcion = r.CheckedBy
	}
	d.extra = p.Extra
	return d
}

func fromMovement(m entity.Movement) movementDocument {
	md := movementDocument{
		ID:       m.ID,
		Tipo:     m.Type,
		Fecha:    formatTimestamp(m.Timestamp),
		Cantidad: formatNumber(m.Quantity),
		Usuario:  m.User,
		extra:    m.Extra,
	}
	if m.Type == entity.MovementTypeOrderExit {
		md.Pedido = m.Reference
	} else {
		md.Motivo = m.Reference
	}
	return md
}

func parseNumber(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func formatNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// parseTimestamp solo acepta timestampLayout: cualquier otra forma queda sin interpretar
// (tiempo cero) y su texto original se conserva en Extra.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(timestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(timestampLayout)
}

// leftovers devuelve las claves de raw que la forma canónica no vuelve a escribir: claves
// desconocidas, strings vacíos omitidos y fechas en otro formato. Los valores se compactan.
func leftovers(raw json.RawMessage, canonical interface{}) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var in map[string]json.RawMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil
	}
	written, err := objectKeys(canonical)
	if err != nil {
		return nil
	}
	var extra map[string]json.RawMessage
	for k, v := range in {
		if _, ok := written[k]; ok {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = json.RawMessage(buf.Bytes())
	}
	return extra
}

func objectKeys(v interface{}) (map[string]json.RawMessage, error) {
	b, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// marshalWithExtra codifica v y agrega al final del objeto, en orden alfabético, las claves
// de extra que v no escribió. Un valor tipado presente siempre gana sobre extra.
func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := marshalNoEscape(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	written, err := objectKeys(v)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, ok := written[k]; !ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return b, nil
	}
	sort.Strings(keys)

	out := bytes.NewBuffer(b[:len(b)-1]) // sin la llave de cierre
	for i, k := range keys {
		if len(written) > 0 || i > 0 {
			out.WriteByte(',')
		}
		name, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		out.Write(name)
		out.WriteByte(':')
		out.Write(extra[k])
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
