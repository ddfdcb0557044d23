package plants

// Builtin returns the eight reference plants shipped with the service.
func Builtin() []Record {
	return []Record{
		{
			ID:             "aloe-vera",
			Name:           "Aloe Vera",
			ScientificName: "Aloe barbadensis miller",
			MedicinalUses: []string{
				"Wound healing and burns",
				"Anti-inflammatory properties",
				"Digestive aid",
				"Skin moisturizing",
				"Sunburn relief",
			},
			CareRecommendations: []string{
				"Water sparingly, allowing soil to dry between waterings",
				"Provide bright, indirect sunlight",
				"Use well-draining succulent soil mix",
				"Maintain temperature between 60-75°F",
				"Avoid overwatering to prevent root rot",
			},
			GrowingTips: []string{
				"Plant in shallow, wide containers",
				"Harvest outer leaves for gel extraction",
				"Propagate from offshoots (pups)",
				"Repot every 2-3 years",
				"Reduce watering in winter months",
			},
			Toxicity: ToxicityCaution,
			ActiveCompounds: []string{
				"Acemannan",
				"Aloin",
				"Anthraquinones",
				"Vitamins A, C, E",
				"Amino acids",
			},
			Image: "https://images.pexels.com/photos/4425964/pexels-photo-4425964.jpeg",
		},
		{
			ID:             "echinacea",
			Name:           "Echinacea",
			ScientificName: "Echinacea purpurea",
			MedicinalUses: []string{
				"Immune system support",
				"Cold and flu prevention",
				"Anti-inflammatory effects",
				"Wound healing",
				"Respiratory health",
			},
			CareRecommendations: []string{
				"Plant in well-drained, fertile soil",
				"Water regularly but avoid waterlogged conditions",
				"Deadhead spent flowers to encourage blooming",
				"Divide clumps every 3-4 years",
				"Cut back in late fall",
			},
			GrowingTips: []string{
				"Tolerates drought once established",
				"Attracts butterflies and bees",
				"Harvest roots in fall for medicinal use",
				"Self-seeds readily in garden",
				"Full sun to partial shade preferred",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Chicoric acid",
				"Polysaccharides",
				"Alkamides",
				"Flavonoids",
				"Essential oils",
			},
			Image: "https://images.pexels.com/photos/1418336/pexels-photo-1418336.jpeg",
		},
		{
			ID:             "lavender",
			Name:           "Lavender",
			ScientificName: "Lavandula angustifolia",
			MedicinalUses: []string{
				"Anxiety and stress relief",
				"Sleep aid and insomnia",
				"Antiseptic properties",
				"Pain relief",
				"Headache treatment",
			},
			CareRecommendations: []string{
				"Plant in well-draining, alkaline soil",
				"Provide full sun exposure",
				"Water deeply but infrequently",
				"Prune after flowering to maintain shape",
				"Protect from excessive winter moisture",
			},
			GrowingTips: []string{
				"Drought tolerant once established",
				"Harvest flowers just before full bloom",
				"Dry flowers for potpourri and sachets",
				"Companion plant for vegetables",
				"Perennial in zones 5-9",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Linalool",
				"Linalyl acetate",
				"Camphor",
				"Terpinen-4-ol",
				"Lavandulol",
			},
			Image: "https://images.pexels.com/photos/207518/pexels-photo-207518.jpeg",
		},
		{
			ID:             "ginger",
			Name:           "Ginger",
			ScientificName: "Zingiber officinale",
			MedicinalUses: []string{
				"Digestive aid and nausea relief",
				"Anti-inflammatory properties",
				"Motion sickness prevention",
				"Pain relief",
				"Immune system support",
			},
			CareRecommendations: []string{
				"Plant rhizomes in rich, well-draining soil",
				"Maintain high humidity levels",
				"Provide partial shade to filtered sun",
				"Keep soil consistently moist but not waterlogged",
				"Harvest rhizomes after 8-10 months",
			},
			GrowingTips: []string{
				"Start from fresh rhizome pieces",
				"Ideal growing temperature 75-85°F",
				"Can be grown in containers",
				"Mulch to retain moisture",
				"Protect from strong winds",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Gingerol",
				"Shogaol",
				"Zingerone",
				"Paradol",
				"Essential oils",
			},
			Image: "https://images.pexels.com/photos/161556/ginger-plant-asia-rhizome-161556.jpeg",
		},
		{
			ID:             "turmeric",
			Name:           "Turmeric",
			ScientificName: "Curcuma longa",
			MedicinalUses: []string{
				"Powerful anti-inflammatory",
				"Antioxidant properties",
				"Joint pain relief",
				"Digestive health",
				"Liver support",
			},
			CareRecommendations: []string{
				"Plant in rich, well-draining soil",
				"Provide warm, humid conditions",
				"Water regularly during growing season",
				"Harvest rhizomes after 7-10 months",
				"Store dormant rhizomes in cool, dry place",
			},
			GrowingTips: []string{
				"Requires long, warm growing season",
				"Prefers partial shade in hot climates",
				"Mulch heavily to retain moisture",
				"Divide rhizomes for propagation",
				"Can be container grown indoors",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Curcumin",
				"Demethoxycurcumin",
				"Bisdemethoxycurcumin",
				"Turmerone",
				"Essential oils",
			},
			Image: "https://images.pexels.com/photos/4198020/pexels-photo-4198020.jpeg",
		},
		{
			ID:             "chamomile",
			Name:           "German Chamomile",
			ScientificName: "Matricaria chamomilla",
			MedicinalUses: []string{
				"Calming and relaxation",
				"Digestive aid",
				"Anti-inflammatory effects",
				"Skin irritation relief",
				"Sleep improvement",
			},
			CareRecommendations: []string{
				"Sow seeds in spring in well-drained soil",
				"Water regularly but avoid overwatering",
				"Harvest flowers when fully open",
				"Allow some plants to self-seed",
				"Prefers cool weather conditions",
			},
			GrowingTips: []string{
				"Annual herb that self-seeds readily",
				"Tolerates poor soil conditions",
				"Harvest in morning after dew dries",
				"Dry flowers for tea and medicinal use",
				"Companion plant for vegetables",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Chamazulene",
				"Bisabolol",
				"Apigenin",
				"Flavonoids",
				"Essential oils",
			},
			Image: "https://images.pexels.com/photos/4041392/pexels-photo-4041392.jpeg",
		},
		{
			ID:             "peppermint",
			Name:           "Peppermint",
			ScientificName: "Mentha × piperita",
			MedicinalUses: []string{
				"Digestive aid and IBS relief",
				"Respiratory congestion",
				"Headache relief",
				"Anti-microbial properties",
				"Mental alertness",
			},
			CareRecommendations: []string{
				"Plant in moist, well-drained soil",
				"Provide partial shade to full sun",
				"Water regularly to maintain soil moisture",
				"Contain spread with barriers or containers",
				"Harvest leaves before flowering",
			},
			GrowingTips: []string{
				"Spreads rapidly via underground runners",
				"Pinch flowers to maintain leaf quality",
				"Divide plants every 2-3 years",
				"Harvest multiple times per season",
				"Perennial in zones 3-9",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Menthol",
				"Menthone",
				"Limonene",
				"Pulegone",
				"Essential oils",
			},
			Image: "https://images.pexels.com/photos/4198463/pexels-photo-4198463.jpeg",
		},
		{
			ID:             "calendula",
			Name:           "Calendula",
			ScientificName: "Calendula officinalis",
			MedicinalUses: []string{
				"Wound healing and skin repair",
				"Anti-inflammatory effects",
				"Antibacterial properties",
				"Soothing irritated skin",
				"Eczema and dermatitis relief",
			},
			CareRecommendations: []string{
				"Plant in well-drained, fertile soil",
				"Provide full sun to partial shade",
				"Water at soil level to prevent powdery mildew",
				"Deadhead regularly for continuous blooming",
				"Direct sow seeds in spring or fall",
			},
			GrowingTips: []string{
				"Cool-season annual that tolerates frost",
				"Self-seeds readily in garden",
				"Harvest petals for medicinal use",
				"Attracts beneficial insects",
				"Companion plant for vegetables",
			},
			Toxicity: ToxicitySafe,
			ActiveCompounds: []string{
				"Calendulin",
				"Carotenoids",
				"Flavonoids",
				"Saponins",
				"Essential oils",
			},
			Image: "https://images.pexels.com/photos/5825665/pexels-photo-5825665.jpeg",
		},
	}
}
