package seeder

import "github.com/Additional-Code/geosstore/internal/entity"

func kz(v int64) *int64 { return &v }

type seedProduct struct {
	name, brand, desc string
	price             int64
	oldPrice          *int64
	category, sizes   string
	stock             int
	featured, isNew   bool
}

var starterCatalog = []seedProduct{
	{"Air Max 90", "Nike", "O clássico Air Max 90 com design icónico e amortecimento Air visível. Conforto lendário para o dia a dia.", 45000, kz(52000), "homem", "39,40,41,42,43,44", 25, true, true},
	{"Air Force 1 Low", "Nike", "O sneaker mais vendido do mundo. Design limpo e versátil que combina com tudo.", 38000, nil, "unisexo", "36,37,38,39,40,41,42,43,44,45", 40, true, false},
	{"Ultraboost 22", "Adidas", "Conforto inigualável com tecnologia Boost. Perfeito para corrida e uso casual.", 55000, kz(65000), "homem", "40,41,42,43,44", 15, true, true},
	{"Stan Smith", "Adidas", "Minimalismo clássico. O Stan Smith é um ícone que nunca sai de moda.", 32000, nil, "unisexo", "36,37,38,39,40,41,42,43", 30, false, false},
	{"Air Jordan 1 Retro High OG", "Jordan", "O sneaker que mudou a cultura. Design original de 1985, tão relevante como sempre.", 72000, kz(85000), "homem", "40,41,42,43,44,45", 10, true, true},
	{"Air Jordan 4 Retro", "Jordan", "Um dos modelos mais desejados. Silhueta agressiva com detalhes premium.", 68000, nil, "homem", "40,41,42,43,44", 8, true, true},
	{"New Balance 550", "New Balance", "O regresso de um clássico dos anos 80. Estilo retro basketball com acabamento premium.", 42000, kz(48000), "unisexo", "37,38,39,40,41,42,43,44", 20, true, true},
	{"Dunk Low", "Nike", "Do basquete para a rua. O Dunk Low é o sneaker da nova geração.", 40000, nil, "unisexo", "36,37,38,39,40,41,42,43,44", 35, false, true},
	{"Suede Classic", "Puma", "Um ícone da cultura urbana desde 1968. Camurça premium e sola clássica.", 28000, kz(32000), "unisexo", "37,38,39,40,41,42,43", 22, false, false},
	{"Old Skool", "Vans", "A side stripe mais conhecida do mundo. Skate culture no seu melhor.", 25000, nil, "unisexo", "36,37,38,39,40,41,42,43,44", 28, false, false},
	{"Gel-Kayano 14", "ASICS", "Desempenho técnico com estilo Y2K. Gel visível para amortecimento superior.", 48000, kz(55000), "homem", "40,41,42,43,44", 12, false, true},
	{"Chuck Taylor All Star", "Converse", "O original desde 1917. Lona resistente e estilo intemporal.", 22000, nil, "unisexo", "36,37,38,39,40,41,42,43,44,45", 50, false, false},
	{"Air Max 97", "Nike", "Linhas fluidas inspiradas nos comboios bala japoneses. Full-length Air unit.", 52000, kz(60000), "homem", "40,41,42,43,44", 14, false, true},
	{"Forum Low", "Adidas", "Originalmente um sneaker de basquete dos anos 80, agora um essencial streetwear.", 35000, nil, "unisexo", "38,39,40,41,42,43", 18, false, false},
	{"Air Max Plus", "Nike", "Design futurista com Tuned Air. Atitude máxima para quem não passa despercebido.", 50000, nil, "homem", "40,41,42,43,44,45", 16, false, true},
	{"Samba OG", "Adidas", "Do futebol indoor para as ruas. O Samba é o sneaker do momento.", 38000, nil, "unisexo", "36,37,38,39,40,41,42,43,44", 45, true, true},
	{"Air Max Dawn", "Nike", "Estilo feminino moderno com amortecimento Air Max. Cores suaves e perfil elegante.", 42000, kz(48000), "mulher", "36,37,38,39,40", 20, true, true},
	{"Ozweego", "Adidas", "Design chunky dos anos 90 reimaginado. Adiprene para conforto todo o dia.", 40000, kz(46000), "mulher", "36,37,38,39,40,41", 15, false, true},
	{"Classic Leather", "Reebok", "O instrutor original. Couro suave e conforto leve desde 1983.", 26000, nil, "mulher", "36,37,38,39,40", 25, false, false},
	{"Nike Court Vision Low", "Nike", "Inspiração basketball vintage adaptada para a pequenada. Resistente e estiloso.", 22000, kz(26000), "crianca", "28,29,30,31,32,33,34,35", 30, true, true},
	{"Superstar CF", "Adidas", "O Superstar com velcro para crianças. Shell toe icónico.", 18000, nil, "crianca", "28,29,30,31,32,33,34", 35, false, true},
	{"Old Skool V", "Vans", "O clássico Vans adaptado para crianças com fecho de velcro. Cores divertidas.", 16000, nil, "crianca", "26,27,28,29,30,31,32,33", 40, false, false},
}

func starterProducts() []*entity.Product {
	out := make([]*entity.Product, 0, len(starterCatalog))
	for _, p := range starterCatalog {
		out = append(out, &entity.Product{
			Name:        p.name,
			Brand:       p.brand,
			Description: p.desc,
			Price:       p.price,
			OldPrice:    p.oldPrice,
			Category:    p.category,
			Sizes:       p.sizes,
			Stock:       p.stock,
			Featured:    p.featured,
			IsNew:       p.isNew,
			Status:      entity.ProductStatusActive,
		})
	}
	return out
}

func starterReviews() []*entity.Review {
	return []*entity.Review{
		{CustomerName: "Maria S.", Rating: 5, Comment: "Encomendei os Air Jordan 1 e chegaram em 3 dias. 100% originais! Recomendo muito."},
		{CustomerName: "Pedro A.", Rating: 5, Comment: "A melhor loja de sneakers em Angola. Serviço impecável e produtos de qualidade."},
		{CustomerName: "Ana L.", Rating: 5, Comment: "Já comprei 3 vezes e nunca me desiludiram. Envio rápido para Benguela!"},
		{CustomerName: "Carlos M.", Rating: 4, Comment: "Óptima selecção de marcas. Os preços são justos para produtos originais."},
		{CustomerName: "Sofia R.", Rating: 5, Comment: "Atendimento via WhatsApp muito profissional. Ajudaram-me a escolher o tamanho certo."},
		{CustomerName: "João D.", Rating: 5, Comment: "Finalmente uma loja de confiança em Angola! Os meus Nike Air Max são perfeitos."},
	}
}
