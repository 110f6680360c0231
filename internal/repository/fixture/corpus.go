// Package fixture serves an in-memory document corpus as a local search engine stand-in.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// LoadFile reads a JSON array of documents.
func LoadFile(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	for i, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("corpus %s: document %d has no id", path, i)
		}
	}
	return docs, nil
}

// LoadOrBuiltin returns the corpus at path, or the built-in corpus when path is empty.
func LoadOrBuiltin(path string) ([]domain.Document, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}

// Builtin returns a copy of the built-in corpus: machine learning documentation
// plus a handful of history and aviation encyclopedia entries.
func Builtin() []domain.Document {
	out := make([]domain.Document, len(builtin))
	copy(out, builtin)
	return out
}

var builtin = []domain.Document{
	{
		ID:      "hf_001",
		Title:   "Transformers Library Introduction",
		Content: "Transformers provides thousands of pretrained models to perform tasks on different modalities such as text, vision, and audio. These models can be applied on text for tasks like text classification, information extraction, question answering, summarization, translation, text generation, in over 100 languages. Computer vision tasks like image classification, object detection, and segmentation. Audio tasks such as speech recognition and audio classification.",
		Path:    "/docs/transformers/index",
		Tags:    []string{"NLP", "computer vision", "audio processing", "machine learning", "AI models"},
	},
	{
		ID:      "hf_002",
		Title:   "Model Training and Fine-tuning",
		Content: "Fine-tuning is the process of taking a pre-trained model and adapting it to a specific task or domain. This involves training the model on a smaller, task-specific dataset. The Trainer class provides a simple but feature-complete training and eval loop for PyTorch optimized for Transformers. It supports distributed training, mixed precision, and gradient accumulation out of the box.",
		Path:    "/docs/transformers/training",
		Tags:    []string{"training", "fine-tuning", "PyTorch", "optimization", "machine learning"},
	},
	{
		ID:      "hf_003",
		Title:   "Tokenization and Text Processing",
		Content: "Tokenization is the process of converting text into tokens that can be processed by machine learning models. Transformers library provides various tokenizers for different models. Fast tokenizers are implemented in Rust and provide significant speed improvements. Tokenizers handle subword tokenization, special tokens, padding, and truncation automatically.",
		Path:    "/docs/transformers/tokenizer_summary",
		Tags:    []string{"tokenization", "text processing", "NLP", "preprocessing", "subword"},
	},
	{
		ID:      "hf_004",
		Title:   "Model Inference and Deployment",
		Content: "After training, models need to be deployed for inference. Hugging Face provides several deployment options including Inference API, Inference Endpoints, and local inference. For production environments, consider using optimized inference engines like ONNX Runtime or TensorRT for faster inference speed and lower latency.",
		Path:    "/docs/inference-endpoints/index",
		Tags:    []string{"deployment", "inference", "production", "optimization", "API"},
	},
	{
		ID:      "hf_005",
		Title:   "Datasets Library Documentation",
		Content: "The Datasets library provides access to thousands of datasets for machine learning research. It includes datasets for natural language processing, computer vision, and audio tasks. The library handles dataset downloading, caching, and preprocessing automatically. It supports memory-mapped datasets for efficient large-scale data processing.",
		Path:    "/docs/datasets/index",
		Tags:    []string{"datasets", "data processing", "caching", "memory mapping", "preprocessing"},
	},
	{
		ID:      "hf_006",
		Title:   "Model Hub and Repository Management",
		Content: "The Hugging Face Model Hub hosts over 100,000 models from the community. Users can upload, share, and discover models easily. Git-based repositories allow version control for models, datasets, and spaces. Model cards provide documentation and metadata for reproducible machine learning research.",
		Path:    "/docs/hub/index",
		Tags:    []string{"model hub", "repository", "version control", "sharing", "documentation"},
	},
	{
		ID:      "hf_007",
		Title:   "Pipeline API for Quick Inference",
		Content: "Pipelines provide a high-level interface for using pre-trained models. They abstract away the complexity of tokenization, model inference, and post-processing. Available pipelines include text classification, named entity recognition, question answering, text generation, and image classification.",
		Path:    "/docs/transformers/pipeline_tutorial",
		Tags:    []string{"pipeline", "API", "inference", "text classification", "NER", "QA"},
	},
	{
		ID:      "hf_008",
		Title:   "AutoModel Classes and Model Loading",
		Content: "AutoModel classes automatically instantiate the correct model architecture from pretrained weights. This provides a unified interface for loading different model types. AutoTokenizer, AutoConfig, and AutoProcessor classes work similarly for their respective components. This abstraction simplifies model loading and switching between different architectures.",
		Path:    "/docs/transformers/autoclass_tutorial",
		Tags:    []string{"AutoModel", "model loading", "architecture", "abstraction", "unified interface"},
	},
	{
		ID:      "hf_009",
		Title:   "Gradient Accumulation and Memory Optimization",
		Content: "Gradient accumulation allows training with larger effective batch sizes on limited memory hardware. Instead of updating weights after each batch, gradients are accumulated over multiple forward passes. Mixed precision training using automatic mixed precision (AMP) can reduce memory usage and improve training speed on modern GPUs.",
		Path:    "/docs/transformers/perf_train_gpu_one",
		Tags:    []string{"gradient accumulation", "memory optimization", "batch size", "mixed precision", "GPU"},
	},
	{
		ID:      "hf_010",
		Title:   "Model Quantization and Compression",
		Content: "Model quantization reduces model size and inference time by using lower precision representations. Techniques include post-training quantization and quantization-aware training. Model pruning removes unnecessary weights to create smaller, faster models. These optimizations are crucial for deploying models on edge devices and mobile applications.",
		Path:    "/docs/transformers/quantization",
		Tags:    []string{"quantization", "compression", "pruning", "optimization", "edge deployment"},
	},
	{
		ID:      "wiki_001",
		Title:   "American Revolution",
		Content: "The American Revolution was an ideological and political revolution in British America between 1765 and 1791. The colonies won independence from Great Britain and established the United States as a constitutional republic.",
		Path:    "/wiki/American_Revolution",
		Tags:    []string{"history", "United States", "independence"},
	},
	{
		ID:      "wiki_002",
		Title:   "French Revolution",
		Content: "The French Revolution was a period of political and societal change in France that began with the Estates General of 1789. Its ideas of liberty and popular sovereignty shaped modern democracy.",
		Path:    "/wiki/French_Revolution",
		Tags:    []string{"history", "France", "democracy"},
	},
	{
		ID:      "wiki_003",
		Title:   "Industrial Revolution",
		Content: "The Industrial Revolution was the transition to new manufacturing processes in Great Britain, continental Europe and the United States, from about 1760 to 1840, including steam power and machine tools.",
		Path:    "/wiki/Industrial_Revolution",
		Tags:    []string{"history", "technology", "manufacturing"},
	},
	{
		ID:      "wiki_004",
		Title:   "Democracy",
		Content: "Democracy is a form of government in which political power is vested in the people. The study of democracy in the American context reveals insights about elections, representation and civil rights.",
		Path:    "/wiki/Democracy",
		Tags:    []string{"politics", "government"},
	},
	{
		ID:      "wiki_005",
		Title:   "Military aircraft",
		Content: "A military aircraft is any fixed-wing or rotary-wing aircraft that is operated by a legal or insurrectionary armed service. Military aircraft include fighters, bombers, tankers and reconnaissance aircraft.",
		Path:    "/wiki/Military_aircraft",
		Tags:    []string{"aviation", "military", "aircraft"},
	},
	{
		ID:      "wiki_006",
		Title:   "Jet engine",
		Content: "A jet engine is a type of reaction engine discharging a fast-moving jet of heated gas that generates thrust by jet propulsion. Jet engines power most modern commercial and military aircraft.",
		Path:    "/wiki/Jet_engine",
		Tags:    []string{"aviation", "propulsion", "engineering"},
	},
	{
		ID:      "wiki_007",
		Title:   "Database",
		Content: "A database is an organized collection of data stored and accessed electronically. Relational databases such as SQLite support full-text search through virtual table extensions like FTS5.",
		Path:    "/wiki/Database",
		Tags:    []string{"technology", "data", "storage"},
	},
	{
		ID:      "wiki_008",
		Title:   "Artificial intelligence",
		Content: "Artificial intelligence is the capability of computational systems to perform tasks associated with human intelligence, such as learning, reasoning and perception. Machine learning is its most widely used approach.",
		Path:    "/wiki/Artificial_intelligence",
		Tags:    []string{"technology", "machine learning", "AI models"},
	},
}
