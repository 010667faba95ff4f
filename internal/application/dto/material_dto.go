package dto

// MaterialRow es una fila del tablero de materiales de un proyecto: proyección
// de solo lectura, nunca se persiste. Las cantidades van formateadas con su
// unidad ("25 Units") porque el tablero las muestra tal cual.
type MaterialRow struct {
	SNo              int    `json:"s_no"`
	MaterialList     string `json:"material_list"`
	InStockQuantity  string `json:"in_stock_quantity"`
	RequiredQuantity string `json:"required_quantity"`
	Level            string `json:"level,omitempty"`
	RequestStatus    string `json:"request_status,omitempty"`
}
