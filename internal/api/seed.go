package api

import "github.com/toanvet/farmaudit/internal/models"

// seedChecklist is a small built-in catalog for demos and first-run setups.
// Production deployments load their own catalog through the admin endpoints.
func seedChecklist() []*models.ChecklistItem {
	return []*models.ChecklistItem{
		{
			ID: "BIO-01", Module: "An toàn sinh học", Category: "Cổng trại",
			Title:     "Hố sát trùng cổng có hoạt động",
			InputType: models.InputYesNo, PhotoRule: models.PhotoOnFail,
			Risk: "NGHIÊM TRỌNG", Weight: 5,
			FailMessage: "Hố sát trùng không đạt, xử lý ngay trong ngày",
		},
		{
			ID: "BIO-02", Module: "An toàn sinh học", Category: "Cổng trại",
			Title:     "Nồng độ thuốc sát trùng",
			InputType: models.InputNumber, StandardMin: "2", StandardMax: "4", Unit: "%",
			Risk: "LỚN", Weight: 3,
		},
		{
			ID: "BIO-03", Module: "An toàn sinh học", Category: "Khu cách ly",
			Title:     "Heo nhập đàn được cách ly đủ ngày",
			InputType: models.InputYesNo,
			Risk:      "LỚN", Weight: 4,
		},
		{
			ID: "ENV-01", Module: "Môi trường chuồng nuôi", Category: "Chuồng đẻ",
			Title:     "Nhiệt độ chuồng đẻ",
			InputType: models.InputNumber, StandardMin: "24", StandardMax: "28", Unit: "°C",
			Risk: "VỪA", Weight: 3,
		},
		{
			ID: "ENV-02", Module: "Môi trường chuồng nuôi", Category: "Chuồng đẻ",
			Title:     "Độ ẩm chuồng đẻ",
			InputType: models.InputNumber, StandardMin: "60", StandardMax: "80", Unit: "%",
			Risk: "NHỎ", Weight: 2,
		},
		{
			ID: "ENV-03", Module: "Môi trường chuồng nuôi", Category: "Chuồng thịt",
			Title:     "Ảnh tổng quan hệ thống làm mát",
			InputType: models.InputPhoto, PhotoRule: models.PhotoAlways,
			Weight: 1,
		},
		{
			ID: "FEED-01", Module: "Thức ăn và nước uống", Category: "Kho cám",
			Title:     "Kho cám khô ráo, không mốc",
			InputType: models.InputYesNo, PhotoRule: models.PhotoOnFail,
			Risk: "LỚN", Weight: 4,
		},
		{
			ID: "FEED-02", Module: "Thức ăn và nước uống", Category: "Nước uống",
			Title:     "Lưu lượng núm uống",
			InputType: models.InputNumber, StandardMin: "1.5", StandardMax: "", Unit: "l/phút",
			Risk: "VỪA", Weight: 2,
		},
		{
			ID: "FEED-03", Module: "Thức ăn và nước uống", Category: "Nước uống",
			Title:     "Đánh giá cảm quan chất lượng nước",
			InputType: models.InputScale,
			Weight:    1,
		},
	}
}
