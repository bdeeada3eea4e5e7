package taxonomy

// DefaultTopics is the SRH intent hierarchy used for the Hinglish query corpus.
var DefaultTopics = []Topic{
	{
		Name: "Contraception and Family Planning",
		Subtopics: []string{
			"Effectiveness and Duration",
			"Family Planning Queries",
			"Side Effects",
			"Sterilization",
			"Types of Contraceptives",
			"Usage Guidance",
		},
	},
	{
		Name: "Menstrual Health",
		Subtopics: []string{
			"Menstrual Cycle Information",
			"Menstrual Flow",
			"Period Pain Management",
			"Sanitary Products and Hygiene",
		},
	},
	{
		Name: "Pregnancy and PNC",
		Subtopics: []string{
			"Abortion",
			"Antepartum",
			"Breastfeeding",
			"Infertility",
			"Miscarriage",
			"Postpartum",
			"Pregnancy Information",
		},
	},
	{
		Name: "Sexual and Vaginal Health",
		Subtopics: []string{
			"Sex-Related Queries",
			"Reproductive Anatomy",
			"STI/STD",
			"UTI",
			"Vaginal Health and Discharge",
			"Vaginal or Uterine Infections",
		},
	},
	{
		Name: "PCOS or PCOD",
		Subtopics: []string{
			"Information",
			"Management",
			"Symptoms",
		},
	},
	{
		Name: "HIV",
		Subtopics: []string{
			"Prevention",
			"Stigma and Awareness",
			"Symptoms and Early Detection",
			"Treatment",
		},
	},
	{
		Name: "Mental Health and Wellness",
		Subtopics: []string{
			"Information and Safety Concerns",
			"Stress Management",
		},
	},
	{
		Name: "Other",
		Subtopics: []string{
			"Child Health",
			"Cultural, Religious, or Moral Norms",
			"Diet and Nutrition",
			"Exercise and Fitness",
			"General Health Queries",
			"Health Equity and Access",
			"Marriage & Relationships",
			"Misconceptions and Myths",
		},
	},
}

// Default returns the built-in SRH taxonomy.
func Default() *Taxonomy {
	return MustNew(DefaultTopics)
}
